package service

import (
	"context"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Section результат одного независимого запроса на дашборде
type Section[T any] struct {
	Data T
	Err  error
}

type AdminDashboard struct {
	Resources Section[[]*model.Resource]
	Sessions  Section[[]*model.SessionRecord]
	Mappings  Section[[]*model.MentorMenteeMapping]
}

type MentorDashboard struct {
	Mentees  Section[[]*model.User]
	MeetLink Section[string]
}

type MenteeDashboard struct {
	Mentor    Section[*model.MentorInfo]
	Todos     Section[[]*model.Todo]
	Resources Section[[]*model.Resource]
}

// DashboardService собирает сводки дашбордов.
// Запросы выполняются параллельно, каждый заполняет только свою секцию:
// ошибка одного не отменяет остальные.
type DashboardService struct {
	api    *apiclient.Client
	logger *zap.Logger
}

func NewDashboardService(api *apiclient.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		api:    api,
		logger: logger,
	}
}

func (s *DashboardService) Admin(ctx context.Context, scope int64) *AdminDashboard {
	conn := s.api.For(scope)
	d := &AdminDashboard{}

	var g errgroup.Group
	g.Go(func() error {
		d.Resources.Data, d.Resources.Err = conn.ListResources(ctx)
		return d.Resources.Err
	})
	g.Go(func() error {
		d.Sessions.Data, d.Sessions.Err = conn.ListSessions(ctx)
		return d.Sessions.Err
	})
	g.Go(func() error {
		d.Mappings.Data, d.Mappings.Err = conn.ListMappings(ctx)
		return d.Mappings.Err
	})
	// Wait отдаёт только первую ошибку, остальные остаются в секциях
	if err := g.Wait(); err != nil {
		s.logFailures(scope, "admin", d.Resources.Err, d.Sessions.Err, d.Mappings.Err)
	}
	return d
}

func (s *DashboardService) Mentor(ctx context.Context, scope int64, mentor *model.User) *MentorDashboard {
	conn := s.api.For(scope)
	d := &MentorDashboard{}

	var g errgroup.Group
	g.Go(func() error {
		d.Mentees.Data, d.Mentees.Err = conn.ListAssignedMentees(ctx, mentor.ID)
		return d.Mentees.Err
	})
	g.Go(func() error {
		d.MeetLink.Data, d.MeetLink.Err = conn.GetMeetLink(ctx, mentor.ID)
		return d.MeetLink.Err
	})
	// Wait отдаёт только первую ошибку, остальные остаются в секциях
	if err := g.Wait(); err != nil {
		s.logFailures(scope, "mentor", d.Mentees.Err, d.MeetLink.Err)
	}
	return d
}

func (s *DashboardService) Mentee(ctx context.Context, scope int64, mentee *model.User) *MenteeDashboard {
	conn := s.api.For(scope)
	d := &MenteeDashboard{}

	var g errgroup.Group
	g.Go(func() error {
		d.Mentor.Data, d.Mentor.Err = conn.GetMentorForMentee(ctx, mentee.ID)
		return d.Mentor.Err
	})
	g.Go(func() error {
		d.Todos.Data, d.Todos.Err = conn.ListTodos(ctx, mentee.ID)
		return d.Todos.Err
	})
	g.Go(func() error {
		d.Resources.Data, d.Resources.Err = conn.ListMenteeResources(ctx)
		return d.Resources.Err
	})
	// Wait отдаёт только первую ошибку, остальные остаются в секциях
	if err := g.Wait(); err != nil {
		s.logFailures(scope, "mentee", d.Mentor.Err, d.Todos.Err, d.Resources.Err)
	}
	return d
}

func (s *DashboardService) logFailures(scope int64, dashboard string, errs ...error) {
	for _, err := range errs {
		if err != nil {
			s.logger.Warn("Dashboard section failed",
				zap.Int64("scope", scope),
				zap.String("dashboard", dashboard),
				zap.Error(err))
		}
	}
}
