package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const scope int64 = 100

func newBackend(t *testing.T, routes map[string]http.HandlerFunc) (*apiclient.Client, *session.Store) {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryBackend(), zap.NewNop())
	client, err := apiclient.New(srv.URL, store, zap.NewNop())
	require.NoError(t, err)
	return client, store
}

func reply(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestAuthService_LoginStoresTokenAndUser(t *testing.T) {
	client, store := newBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": reply(http.StatusOK, map[string]any{
			"access_token": "t",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 2, "name": "Mentor", "role": "mentor"},
		}),
	})
	auth := NewAuthService(client, store, zap.NewNop())

	user, err := auth.Login(context.Background(), scope, "Mentor", model.RoleMentor, "mentor123")
	require.NoError(t, err)
	assert.Equal(t, &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor}, user)

	token, err := store.StoredToken(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "t", token)

	current, err := auth.CurrentUser(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, user, current)
}

func TestAuthService_FailedLoginStoresNothing(t *testing.T) {
	client, store := newBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": reply(http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"}),
	})
	auth := NewAuthService(client, store, zap.NewNop())

	_, err := auth.Login(context.Background(), scope, "Mentor", model.RoleMentor, "wrong")
	require.EqualError(t, err, "Invalid credentials")

	_, err = auth.RequireUser(context.Background(), scope)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestAuthService_Logout(t *testing.T) {
	client, store := newBackend(t, nil)
	auth := NewAuthService(client, store, zap.NewNop())
	require.NoError(t, store.SetStoredAuth(context.Background(), scope, "tok", &model.User{ID: "1", Name: "A", Role: model.RoleAdmin}))

	require.NoError(t, auth.Logout(context.Background(), scope))

	user, err := auth.CurrentUser(context.Background(), scope)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestDashboardService_MenteeSectionsAreIndependent(t *testing.T) {
	client, _ := newBackend(t, map[string]http.HandlerFunc{
		"GET /mentee/3/mentor": reply(http.StatusOK, map[string]string{"mentor_name": "Alice", "meet_link": ""}),
		"GET /mentee/3/todos":  reply(http.StatusInternalServerError, map[string]string{"detail": "boom"}),
		"GET /mentee/resources": reply(http.StatusOK, []map[string]any{
			{"id": 1, "title": "Guide", "url": "https://x/guide.pdf", "uploaded_at": "2026-02-10"},
		}),
	})
	dashboards := NewDashboardService(client, zap.NewNop())

	d := dashboards.Mentee(context.Background(), scope, &model.User{ID: "3", Name: "Mentee", Role: model.RoleMentee})

	require.NoError(t, d.Mentor.Err)
	assert.Equal(t, "Alice", d.Mentor.Data.MentorName)
	assert.EqualError(t, d.Todos.Err, "boom")
	require.NoError(t, d.Resources.Err)
	assert.Len(t, d.Resources.Data, 1)
}

func TestDashboardService_Admin(t *testing.T) {
	client, _ := newBackend(t, map[string]http.HandlerFunc{
		"GET /admin/resources": reply(http.StatusOK, []any{}),
		"GET /admin/sessions": reply(http.StatusOK, []map[string]any{
			{"id": 1, "mentor_name": "Mentor", "mentee_name": "Mentee", "date": "2026-02-14", "fluency_score": 7, "confidence_score": 6, "notes": "n", "next_steps": "s"},
		}),
		"GET /admin/mappings": reply(http.StatusOK, []map[string]any{
			{"mentor_id": 2, "mentor_name": "Mentor", "mentee_id": 3, "mentee_name": "Mentee"},
		}),
	})
	dashboards := NewDashboardService(client, zap.NewNop())

	d := dashboards.Admin(context.Background(), scope)

	require.NoError(t, d.Resources.Err)
	assert.Empty(t, d.Resources.Data)
	require.NoError(t, d.Sessions.Err)
	assert.Equal(t, 7, d.Sessions.Data[0].FluencyScore)
	require.NoError(t, d.Mappings.Err)
	assert.Equal(t, "3", d.Mappings.Data[0].MenteeID)
}

func TestDashboardService_Mentor(t *testing.T) {
	client, _ := newBackend(t, map[string]http.HandlerFunc{
		"GET /mentor/2/mentees":   reply(http.StatusOK, []map[string]any{{"id": 3, "name": "Mentee", "role": "mentee"}}),
		"GET /mentor/2/meet-link": reply(http.StatusOK, map[string]string{"meet_link": "https://meet/abc"}),
	})
	dashboards := NewDashboardService(client, zap.NewNop())

	d := dashboards.Mentor(context.Background(), scope, &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor})

	require.NoError(t, d.Mentees.Err)
	assert.Equal(t, []*model.User{{ID: "3", Name: "Mentee", Role: model.RoleMentee}}, d.Mentees.Data)
	assert.Equal(t, "https://meet/abc", d.MeetLink.Data)
}

func TestDashboardService_LogsEveryFailedSection(t *testing.T) {
	client, _ := newBackend(t, map[string]http.HandlerFunc{
		"GET /mentee/3/mentor":  reply(http.StatusBadGateway, map[string]string{"detail": "mentor down"}),
		"GET /mentee/3/todos":   reply(http.StatusInternalServerError, map[string]string{"detail": "todos down"}),
		"GET /mentee/resources": reply(http.StatusOK, []any{}),
	})
	core, logs := observer.New(zapcore.WarnLevel)
	dashboards := NewDashboardService(client, zap.New(core))

	d := dashboards.Mentee(context.Background(), scope, &model.User{ID: "3", Name: "Mentee", Role: model.RoleMentee})

	assert.EqualError(t, d.Mentor.Err, "mentor down")
	assert.EqualError(t, d.Todos.Err, "todos down")
	require.NoError(t, d.Resources.Err)
	assert.Equal(t, 2, logs.FilterMessage("Dashboard section failed").Len())
}

func TestDashboardService_NoWarningsWhenAllSectionsLoad(t *testing.T) {
	client, _ := newBackend(t, map[string]http.HandlerFunc{
		"GET /mentor/2/mentees":   reply(http.StatusOK, []any{}),
		"GET /mentor/2/meet-link": reply(http.StatusOK, map[string]string{"meet_link": ""}),
	})
	core, logs := observer.New(zapcore.WarnLevel)
	dashboards := NewDashboardService(client, zap.New(core))

	d := dashboards.Mentor(context.Background(), scope, &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor})

	require.NoError(t, d.Mentees.Err)
	require.NoError(t, d.MeetLink.Err)
	assert.Zero(t, logs.Len())
}
