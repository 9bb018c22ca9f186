package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":    RoleAdmin,
		"Mentor":   RoleMentor,
		" MENTEE ": RoleMentee,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("student")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleWireAndValid(t *testing.T) {
	assert.Equal(t, "mentor", RoleMentor.Wire())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("Owner").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserIs(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.Is(RoleAdmin))

	u := &User{ID: "1", Name: "Admin", Role: RoleAdmin}
	assert.True(t, u.Is(RoleAdmin))
	assert.False(t, u.Is(RoleMentee))
}
