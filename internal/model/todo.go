package model

// DateLayout формат дат в API (YYYY-MM-DD)
const DateLayout = "2006-01-02"

type Todo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Completed   bool   `json:"completed"`
	MenteeID    string `json:"menteeId"`
}

// NewTodo данные для назначения задачи подопечному
type NewTodo struct {
	MenteeID    string
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD
}

// ReplaceTodo возвращает новый список, в котором задача с ID updated заменена на updated.
// Остальные элементы не меняются.
func ReplaceTodo(todos []*Todo, updated *Todo) []*Todo {
	result := make([]*Todo, len(todos))
	for i, t := range todos {
		if updated != nil && t.ID == updated.ID {
			result[i] = updated
			continue
		}
		result[i] = t
	}
	return result
}
