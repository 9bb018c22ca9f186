// Package router решает, можно ли показать пользователю защищённый раздел.
package router

import "github.com/Freeeeeet/mentor_connect_bot/internal/model"

// Decision результат проверки доступа к разделу
type Decision int

const (
	// Unauthenticated нет сессии: отправить на вход
	Unauthenticated Decision = iota
	// WrongRole роль не совпадает с требуемой: отправить на вход
	WrongRole
	// Allowed показать раздел внутри оболочки дашборда
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Unauthenticated:
		return "unauthenticated"
	case WrongRole:
		return "authenticated-wrong-role"
	case Allowed:
		return "authenticated-correct-role"
	default:
		return "unknown"
	}
}

// Redirect нужно ли отправить пользователя на вход
func (d Decision) Redirect() bool {
	return d != Allowed
}

// Resolve проверяет доступ пользователя к разделу с требуемой ролью
func Resolve(user *model.User, required model.Role) Decision {
	if user == nil {
		return Unauthenticated
	}
	if user.Role != required {
		return WrongRole
	}
	return Allowed
}

// Route защищённый раздел
type Route struct {
	Command     string
	Role        model.Role
	Label       string
	Description string
}

// Routes все защищённые разделы. Порядок внутри роли задаёт порядок навигации.
var Routes = []Route{
	{Command: "/admin", Role: model.RoleAdmin, Label: "📊 Dashboard", Description: "Admin dashboard"},
	{Command: "/createuser", Role: model.RoleAdmin, Label: "➕ Create User", Description: "Create a mentor or mentee"},
	{Command: "/upload", Role: model.RoleAdmin, Label: "📤 Upload Resources", Description: "Upload a PDF resource"},
	{Command: "/mapmentor", Role: model.RoleAdmin, Label: "🔗 Map Mentors", Description: "Assign a mentor to a mentee"},
	{Command: "/resources", Role: model.RoleAdmin, Label: "📄 Resources", Description: "All uploaded resources"},
	{Command: "/sessions", Role: model.RoleAdmin, Label: "📋 Sessions", Description: "Session records"},

	{Command: "/mentor", Role: model.RoleMentor, Label: "📊 Dashboard", Description: "Mentor dashboard"},
	{Command: "/meetlink", Role: model.RoleMentor, Label: "🎥 Meet Link", Description: "View or set your meet link"},
	{Command: "/mentees", Role: model.RoleMentor, Label: "👥 My Mentees", Description: "Your assigned mentees"},
	{Command: "/logsession", Role: model.RoleMentor, Label: "📝 Log Session", Description: "Log a session record"},
	{Command: "/assigntodo", Role: model.RoleMentor, Label: "✅ Assign Todo", Description: "Assign a task to a mentee"},

	{Command: "/mentee", Role: model.RoleMentee, Label: "📊 Dashboard", Description: "Mentee dashboard"},
	{Command: "/meet", Role: model.RoleMentee, Label: "🎥 Join Meet", Description: "Your mentor and meet link"},
	{Command: "/todos", Role: model.RoleMentee, Label: "✅ My Todos", Description: "Your to-do list"},
	{Command: "/materials", Role: model.RoleMentee, Label: "📄 Resources", Description: "Learning resources"},
}

// Lookup ищет раздел по команде
func Lookup(command string) (Route, bool) {
	for _, r := range Routes {
		if r.Command == command {
			return r, true
		}
	}
	return Route{}, false
}

// NavFor разделы роли в порядке навигации
func NavFor(role model.Role) []Route {
	var nav []Route
	for _, r := range Routes {
		if r.Role == role {
			nav = append(nav, r)
		}
	}
	return nav
}

// HomeFor стартовый раздел роли (дашборд)
func HomeFor(role model.Role) string {
	nav := NavFor(role)
	if len(nav) == 0 {
		return ""
	}
	return nav[0].Command
}
