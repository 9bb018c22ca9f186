package model

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Is проверяет роль пользователя
func (u *User) Is(role Role) bool {
	return u != nil && u.Role == role
}
