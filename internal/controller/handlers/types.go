package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Screen куда и для кого рисуется защищённый раздел.
// В личном чате ChatID совпадает с TelegramID.
type Screen struct {
	ChatID     int64
	TelegramID int64
	User       *model.User
}

// View защищённый раздел. Вызывается только после router.Resolve == Allowed.
type View func(ctx context.Context, b *bot.Bot, s Screen)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	auth         *service.AuthService
	dashboards   *service.DashboardService
	api          *apiclient.Client
	stateManager *state.Manager
	httpClient   *http.Client
	views        map[string]View
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	auth *service.AuthService,
	dashboards *service.DashboardService,
	api *apiclient.Client,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		auth:         auth,
		dashboards:   dashboards,
		api:          api,
		stateManager: stateManager,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}

	h.views = map[string]View{
		"/admin":      h.showAdminDashboard,
		"/createuser": h.startCreateUser,
		"/upload":     h.startUpload,
		"/mapmentor":  h.startMapMentor,
		"/resources":  h.showAllResources,
		"/sessions":   h.showSessionsPage0,

		"/mentor":     h.showMentorDashboard,
		"/meetlink":   h.showMeetLink,
		"/mentees":    h.showAssignedMentees,
		"/logsession": h.startLogSession,
		"/assigntodo": h.startAssignTodo,

		"/mentee":    h.showMenteeDashboard,
		"/meet":      h.showMeet,
		"/todos":     h.showTodos,
		"/materials": h.showMaterials,
	}

	for _, route := range router.Routes {
		if _, ok := h.views[route.Command]; !ok {
			logger.Fatal("No view for protected route", zap.String("command", route.Command))
		}
	}

	return h
}

// conn API клиент в сессии пользователя экрана
func (h *Handlers) conn(s Screen) *apiclient.Conn {
	return h.api.For(s.TelegramID)
}
