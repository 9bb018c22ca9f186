package state

import "time"

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Вход
	StateLoginPrompted UserState = "login_prompted" // приглашение ко входу уже отправлено
	StateLoginName     UserState = "login_name"
	StateLoginRole     UserState = "login_role"
	StateLoginPassword UserState = "login_password"

	// Админ: создание пользователя
	StateCreateUserName     UserState = "create_user_name"
	StateCreateUserRole     UserState = "create_user_role"
	StateCreateUserPassword UserState = "create_user_password"

	// Админ: загрузка PDF
	StateUploadTitle UserState = "upload_title"
	StateUploadFile  UserState = "upload_file"

	// Админ: назначение ментора
	StateMapMentor UserState = "map_mentor"
	StateMapMentee UserState = "map_mentee"

	// Ментор: ссылка на встречу
	StateSetMeetLink UserState = "set_meet_link"

	// Ментор: запись сессии
	StateLogSessionMentee     UserState = "log_session_mentee"
	StateLogSessionFluency    UserState = "log_session_fluency"
	StateLogSessionConfidence UserState = "log_session_confidence"
	StateLogSessionNotes      UserState = "log_session_notes"
	StateLogSessionNextSteps  UserState = "log_session_next_steps"

	// Ментор: задача для менти
	StateAssignTodoMentee      UserState = "assign_todo_mentee"
	StateAssignTodoTitle       UserState = "assign_todo_title"
	StateAssignTodoDescription UserState = "assign_todo_description"
	StateAssignTodoDueDate     UserState = "assign_todo_due_date"
)

// DefaultTTL через сколько брошенный диалог забывается
const DefaultTTL = 30 * time.Minute

// IsLogin true для шагов диалога входа
func (s UserState) IsLogin() bool {
	switch s {
	case StateLoginPrompted, StateLoginName, StateLoginRole, StateLoginPassword:
		return true
	}
	return false
}

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]any
	UpdatedAt time.Time
}
