package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	// MaxUploadSize предел getFile в Bot API
	MaxUploadSize = 20 << 20

	// SessionsPerPage записей о встречах на странице
	SessionsPerPage = 5
)

// Роли, которые администратор может создать
var creatableRoles = []model.Role{model.RoleMentor, model.RoleMentee}

func (h *Handlers) showAdminDashboard(ctx context.Context, b *bot.Bot, s Screen) {
	d := h.dashboards.Admin(ctx, s.TelegramID)
	if anyUnauthorized(d.Resources.Err, d.Sessions.Err, d.Mappings.Err) {
		return
	}

	body := fmt.Sprintf(
		"📊 Admin Dashboard\n\n"+
			"📄 Resources: %s\n"+
			"📋 Sessions: %s\n"+
			"🔗 Mappings: %s\n\n"+
			"Current mappings:\n%s",
		section(d.Resources.Err, func() string { return fmt.Sprint(len(d.Resources.Data)) }),
		section(d.Sessions.Err, func() string { return fmt.Sprint(len(d.Sessions.Data)) }),
		section(d.Mappings.Err, func() string { return fmt.Sprint(len(d.Mappings.Data)) }),
		section(d.Mappings.Err, func() string { return formatMappings(d.Mappings.Data) }),
	)
	h.render(ctx, b, s, body)
}

// anyUnauthorized сессию отклонили: приглашение ко входу уже отправлено
func anyUnauthorized(errs ...error) bool {
	for _, err := range errs {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return true
		}
	}
	return false
}

// ===== Создание пользователя =====

func (h *Handlers) startCreateUser(ctx context.Context, b *bot.Bot, s Screen) {
	h.stateManager.Start(s.TelegramID, state.StateCreateUserName)
	h.sendMessage(ctx, b, s.ChatID,
		"➕ Create user\n\n"+
			"Step 1 of 3: Enter the user's name\n\n"+
			"To cancel use /cancel")
}

func (h *Handlers) handleCreateUserName(ctx context.Context, b *bot.Bot, msg *models.Message, name string) {
	if name == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Name cannot be empty. Try again:")
		return
	}

	h.stateManager.SetData(msg.From.ID, "name", name)
	h.stateManager.SetState(msg.From.ID, state.StateCreateUserRole)
	h.sendWithKeyboard(ctx, b, msg.Chat.ID, "Step 2 of 3: Choose the role", roleKeyboard(NewUserRolePrefix, creatableRoles))
}

func (h *Handlers) handleCreateUserRoleCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.answerCallback(ctx, b, callback.ID, "")
	chatID := callbackChatID(callback)

	if h.stateManager.GetState(callback.From.ID) != state.StateCreateUserRole {
		h.sendMessage(ctx, b, chatID, "⌛ This form has expired. Use /createuser to start again.")
		return
	}

	role, err := parseRoleCallback(callback.Data, NewUserRolePrefix)
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	h.stateManager.SetData(callback.From.ID, "role", role)
	h.stateManager.SetState(callback.From.ID, state.StateCreateUserPassword)
	h.editOrSend(ctx, b, callback, fmt.Sprintf(
		"Role: %s\n\n"+
			"Step 3 of 3: Enter a password (at least %d characters)\n"+
			"🔐 The message with the password will be deleted.",
		role, apiclient.MinPasswordLength), nil)
}

func (h *Handlers) handleCreateUserPassword(ctx context.Context, b *bot.Bot, msg *models.Message, password string) {
	h.deleteMessage(ctx, b, msg.Chat.ID, msg.ID)

	if len(password) < apiclient.MinPasswordLength {
		h.sendError(ctx, b, msg.Chat.ID,
			fmt.Sprintf("❌ Password must be at least %d characters. Try again:", apiclient.MinPasswordLength))
		return
	}

	s, ok := h.requireScreen(ctx, b, msg.Chat.ID, msg.From.ID, model.RoleAdmin)
	if !ok {
		return
	}

	name, _ := state.Value[string](h.stateManager, s.TelegramID, "name")
	role, _ := state.Value[model.Role](h.stateManager, s.TelegramID, "role")
	h.stateManager.ClearState(s.TelegramID)

	user, err := h.conn(s).CreateUser(ctx, name, role, password)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.logger.Info("User created",
		zap.Int64("telegram_id", s.TelegramID),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	h.render(ctx, b, s, fmt.Sprintf("✅ %s \"%s\" created successfully", user.Role, user.Name))
}

// ===== Загрузка PDF =====

func (h *Handlers) startUpload(ctx context.Context, b *bot.Bot, s Screen) {
	h.stateManager.Start(s.TelegramID, state.StateUploadTitle)
	h.sendMessage(ctx, b, s.ChatID,
		"📤 Upload resource\n\n"+
			"Step 1 of 2: Enter the resource title\n\n"+
			"To cancel use /cancel")
}

func (h *Handlers) handleUploadTitle(ctx context.Context, b *bot.Bot, msg *models.Message, title string) {
	if title == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Title cannot be empty. Try again:")
		return
	}

	h.stateManager.SetData(msg.From.ID, "title", title)
	h.stateManager.SetState(msg.From.ID, state.StateUploadFile)
	h.sendMessage(ctx, b, msg.Chat.ID, "Step 2 of 2: Send the PDF file as a document 📎")
}

// isPDF документ с типом application/pdf или расширением .pdf
func isPDF(doc *models.Document) bool {
	return doc.MimeType == "application/pdf" || strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
}

func (h *Handlers) handleDocument(ctx context.Context, b *bot.Bot, msg *models.Message, current state.UserState) {
	if current != state.StateUploadFile {
		h.sendMessage(ctx, b, msg.Chat.ID, "📎 To upload a resource use /upload first.")
		return
	}

	doc := msg.Document
	if !isPDF(doc) {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Only PDF files are allowed. Send a PDF or /cancel.")
		return
	}
	if doc.FileSize > MaxUploadSize {
		h.sendError(ctx, b, msg.Chat.ID, "❌ The file is too large (max 20 MB). Send a smaller PDF or /cancel.")
		return
	}

	s, ok := h.requireScreen(ctx, b, msg.Chat.ID, msg.From.ID, model.RoleAdmin)
	if !ok {
		return
	}

	title, _ := state.Value[string](h.stateManager, s.TelegramID, "title")
	h.stateManager.ClearState(s.TelegramID)

	content, err := h.downloadDocument(ctx, b, doc)
	if err != nil {
		h.logger.Error("Failed to download document", zap.String("file_id", doc.FileID), zap.Error(err))
		h.sendError(ctx, b, s.ChatID, "❌ Could not download the file from Telegram. Use /upload to try again.")
		return
	}
	defer content.Close()

	fileName := doc.FileName
	if fileName == "" {
		fileName = title + ".pdf"
	}

	resource, err := h.conn(s).UploadResource(ctx, title, fileName, content)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.logger.Info("Resource uploaded",
		zap.Int64("telegram_id", s.TelegramID),
		zap.String("resource_id", resource.ID))
	h.render(ctx, b, s, "✅ Resource uploaded successfully\n\n"+formatResource(resource))
}

// downloadDocument скачивает файл документа с серверов Telegram
func (h *Handlers) downloadDocument(ctx context.Context, b *bot.Bot, doc *models.Document) (io.ReadCloser, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ===== Назначение ментора =====

func (h *Handlers) startMapMentor(ctx context.Context, b *bot.Bot, s Screen) {
	conn := h.conn(s)

	mentors, err := conn.ListMentors(ctx)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	mappings, mappingsErr := conn.ListMappings(ctx)
	if anyUnauthorized(mappingsErr) {
		return
	}

	body := "🔗 Map Mentors\n\nCurrent mappings:\n" +
		section(mappingsErr, func() string { return formatMappings(mappings) })

	if len(mentors) == 0 {
		h.render(ctx, b, s, body+"\n\nNo mentors yet. Create one with /createuser.")
		return
	}

	h.stateManager.Start(s.TelegramID, state.StateMapMentor)

	buttons := make([]models.InlineKeyboardButton, 0, len(mentors))
	for _, m := range mentors {
		buttons = append(buttons, keyboard.Button("🧑‍🏫 "+m.Name, MapMentorPrefix+m.ID))
	}
	kb := keyboard.NewBuilder().Grid(2, buttons...).Build()
	h.sendWithKeyboard(ctx, b, s.ChatID, body+"\n\nStep 1 of 2: Choose a mentor", kb)
}

func (h *Handlers) handleMapMentorCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.answerCallback(ctx, b, callback.ID, "")

	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleAdmin)
	if !ok {
		return
	}
	if h.stateManager.GetState(s.TelegramID) != state.StateMapMentor {
		h.sendMessage(ctx, b, s.ChatID, "⌛ This form has expired. Use /mapmentor to start again.")
		return
	}

	mentorID, err := callbackArg(callback.Data, MapMentorPrefix)
	if err != nil {
		h.sendError(ctx, b, s.ChatID, ErrorMessage(err))
		return
	}

	conn := h.conn(s)
	mentees, err := conn.ListMentees(ctx)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	if len(mentees) == 0 {
		h.stateManager.ClearState(s.TelegramID)
		h.editOrSend(ctx, b, callback, "No mentees yet. Create one with /createuser.", nil)
		return
	}

	// текущие менторы нужны, чтобы предупредить о переназначении
	currentMentors := map[string]*model.MentorMenteeMapping{}
	mappings, err := conn.ListMappings(ctx)
	if err != nil {
		if anyUnauthorized(err) {
			return
		}
		h.logger.Warn("Failed to load mappings for reassignment notice", zap.Error(err))
	}
	for _, m := range mappings {
		currentMentors[m.MenteeID] = m
	}

	h.stateManager.SetData(s.TelegramID, "mentor_id", mentorID)
	h.stateManager.SetData(s.TelegramID, "current_mentors", currentMentors)
	h.stateManager.SetState(s.TelegramID, state.StateMapMentee)

	buttons := make([]models.InlineKeyboardButton, 0, len(mentees))
	for _, m := range mentees {
		label := "🧑‍🎓 " + m.Name
		if current, ok := currentMentors[m.ID]; ok {
			label += " (" + current.MentorName + ")"
		}
		buttons = append(buttons, keyboard.Button(label, MapMenteePrefix+m.ID))
	}
	kb := keyboard.NewBuilder().Grid(2, buttons...).Build()
	h.editOrSend(ctx, b, callback, "Step 2 of 2: Choose a mentee\n\nMentees in brackets already have a mentor; mapping them reassigns.", kb)
}

func (h *Handlers) handleMapMenteeCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.answerCallback(ctx, b, callback.ID, "")

	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleAdmin)
	if !ok {
		return
	}
	if h.stateManager.GetState(s.TelegramID) != state.StateMapMentee {
		h.sendMessage(ctx, b, s.ChatID, "⌛ This form has expired. Use /mapmentor to start again.")
		return
	}

	menteeID, err := callbackArg(callback.Data, MapMenteePrefix)
	if err != nil {
		h.sendError(ctx, b, s.ChatID, ErrorMessage(err))
		return
	}

	mentorID, _ := state.Value[string](h.stateManager, s.TelegramID, "mentor_id")
	currentMentors, _ := state.Value[map[string]*model.MentorMenteeMapping](h.stateManager, s.TelegramID, "current_mentors")
	h.stateManager.ClearState(s.TelegramID)

	result, err := h.conn(s).MapMentor(ctx, mentorID, menteeID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.logger.Info("Mentor mapped",
		zap.Int64("telegram_id", s.TelegramID),
		zap.String("mentor_id", result.MentorID),
		zap.String("mentee_id", result.MenteeID))

	h.render(ctx, b, s, "✅ "+result.Message+reassignmentNotice(currentMentors, mentorID, menteeID))
}

// reassignmentNotice предупреждение, если у подопечного был другой ментор.
// Бэкенд хранит одного ментора на подопечного и заменяет старую связь.
func reassignmentNotice(current map[string]*model.MentorMenteeMapping, mentorID, menteeID string) string {
	previous, ok := current[menteeID]
	if !ok || previous.MentorID == mentorID {
		return ""
	}
	return fmt.Sprintf("\n\nℹ️ %s was previously mapped to %s; that mapping has been replaced.", previous.MenteeName, previous.MentorName)
}

// ===== Списки =====

func (h *Handlers) showAllResources(ctx context.Context, b *bot.Bot, s Screen) {
	resources, err := h.conn(s).ListResources(ctx)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	h.render(ctx, b, s, fmt.Sprintf("📄 Resources (%d)\n\n%s", len(resources), formatResources(resources)))
}

func (h *Handlers) showSessionsPage0(ctx context.Context, b *bot.Bot, s Screen) {
	text, kb, ok := h.sessionsPage(ctx, b, s, 0)
	if ok {
		h.sendWithKeyboard(ctx, b, s.ChatID, text, kb)
	}
}

func (h *Handlers) handleSessionsPageCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.answerCallback(ctx, b, callback.ID, "")

	page, err := callbackInt(callback.Data, SessionsPagePrefix)
	if err != nil {
		h.sendError(ctx, b, callbackChatID(callback), ErrorMessage(err))
		return
	}

	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleAdmin)
	if !ok {
		return
	}

	text, kb, ok := h.sessionsPage(ctx, b, s, page)
	if ok {
		h.editOrSend(ctx, b, callback, text, kb)
	}
}

// sessionsPage страница журнала встреч внутри оболочки
func (h *Handlers) sessionsPage(ctx context.Context, b *bot.Bot, s Screen, page int) (string, *models.InlineKeyboardMarkup, bool) {
	records, err := h.conn(s).ListSessions(ctx)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return "", nil, false
	}

	start, end, current, pages := keyboard.Page(len(records), SessionsPerPage, page)

	body := fmt.Sprintf("📋 Session records (%d)", len(records))
	if len(records) == 0 {
		body += "\n\nNo sessions logged yet."
	}
	for _, r := range records[start:end] {
		body += "\n\n" + formatSessionRecord(r)
	}

	kb := keyboard.NewBuilder().
		AddPagination(SessionsPagePrefix, current, pages).
		AddRows(navRows(s.User.Role)).
		Build()
	return shellText(s.User, body), kb, true
}
