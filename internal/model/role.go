package model

import (
	"fmt"
	"strings"
)

// Role роль пользователя в системе менторства
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMentor Role = "Mentor"
	RoleMentee Role = "Mentee"
)

// Roles все допустимые роли в порядке отображения
var Roles = []Role{RoleAdmin, RoleMentor, RoleMentee}

// ParseRole разбирает роль без учёта регистра ("mentor" -> RoleMentor)
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid проверяет что роль входит в закрытый список
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil && r != ""
}

// Wire возвращает роль в формате бэкенда (нижний регистр)
func (r Role) Wire() string {
	return strings.ToLower(string(r))
}
