package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testScope int64 = 7

type testEnv struct {
	client    *Client
	store     *session.Store
	redirects []int64
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	env := &testEnv{
		store: session.NewStore(session.NewMemoryBackend(), zap.NewNop()),
	}
	client, err := New(srv.URL, env.store, zap.NewNop(),
		WithUnauthorizedHandler(func(_ context.Context, scope int64) {
			env.redirects = append(env.redirects, scope)
		}))
	require.NoError(t, err)
	env.client = client
	return env
}

func (e *testEnv) login(t *testing.T, token string, user *model.User) {
	t.Helper()
	require.NoError(t, e.store.SetStoredAuth(context.Background(), testScope, token, user))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("/api", nil, zap.NewNop())
	assert.Error(t, err)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotContentType, gotRequestID string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/mentors", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 2, "name": "Mentor", "role": "mentor"}})
	})
	env.login(t, "admin-token", &model.User{ID: "1", Name: "Admin", Role: model.RoleAdmin})

	mentors, err := env.client.For(testScope).ListMentors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer admin-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, []*model.User{{ID: "2", Name: "Mentor", Role: model.RoleMentor}}, mentors)
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := env.client.For(testScope).ListMentees(context.Background())
	require.NoError(t, err)
}

func TestDo_KeepsExplicitAuthorizationHeader(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer explicit", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	env.login(t, "stored", &model.User{ID: "1", Name: "Admin", Role: model.RoleAdmin})

	err := env.client.do(context.Background(), testScope, request{
		path:   "/ping",
		header: http.Header{"Authorization": []string{"Bearer explicit"}},
	}, nil)
	require.NoError(t, err)
}

func TestDo_NoContent(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	err := env.client.do(context.Background(), testScope, request{path: "/anything"}, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDo_AuthFailureClearsSessionAndRedirectsOnce(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"detail": "Admin access required"})
		})
		env.login(t, "token", &model.User{ID: "3", Name: "Mentee", Role: model.RoleMentee})

		_, err := env.client.For(testScope).ListSessions(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, status, apiErr.Status)
		assert.Equal(t, "Admin access required", err.Error())
		assert.ErrorIs(t, err, ErrUnauthorized)

		token, _ := env.store.StoredToken(context.Background(), testScope)
		assert.Empty(t, token)
		user, _ := env.store.StoredUser(context.Background(), testScope)
		assert.Nil(t, user)
		assert.Equal(t, []int64{testScope}, env.redirects)
	}
}

func TestDo_BusinessErrorKeepsSession(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Mentee is not assigned to this mentor"})
	})
	env.login(t, "token", &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor})

	_, err := env.client.For(testScope).AssignTodo(context.Background(), model.NewTodo{
		MenteeID: "3", Title: "Read", Description: "Chapter 3", DueDate: "2026-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, "Mentee is not assigned to this mentor", err.Error())
	assert.NotErrorIs(t, err, ErrUnauthorized)

	token, _ := env.store.StoredToken(context.Background(), testScope)
	assert.Equal(t, "token", token)
	assert.Empty(t, env.redirects)
}

func TestDo_DefaultErrorMessage(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>oops</html>")
	})

	_, err := env.client.For(testScope).ListMappings(context.Background())
	require.Error(t, err)
	assert.Equal(t, DefaultErrorMessage, err.Error())
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.NewStore(session.NewMemoryBackend(), zap.NewNop())
	client, err := New(url, store, zap.NewNop())
	require.NoError(t, err)

	_, err = client.For(testScope).ListMentors(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestParseDetail(t *testing.T) {
	cases := map[string]string{
		`{"detail":"Invalid credentials"}`:                             "Invalid credentials",
		`{"detail":[{"msg":"Meet link must be a valid http(s) URL"}]}`: "Meet link must be a valid http(s) URL",
		`{"detail":""}`:      DefaultErrorMessage,
		`{"message":"x"}`:    DefaultErrorMessage,
		`not json`:           DefaultErrorMessage,
		``:                   DefaultErrorMessage,
		`{"detail":{"a":1}}`: DefaultErrorMessage,
	}
	for body, want := range cases {
		assert.Equal(t, want, parseDetail([]byte(body)), body)
	}
}

func TestLogin_Scenario(t *testing.T) {
	var got credentialsRequest
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "t",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 2, "name": "Mentor", "role": "mentor"},
		})
	})

	res, err := env.client.For(testScope).Login(context.Background(), "Mentor", model.RoleMentor, "mentor123")
	require.NoError(t, err)

	assert.Equal(t, credentialsRequest{Name: "Mentor", Role: "mentor", Password: "mentor123"}, got)
	assert.Equal(t, "t", res.Token)
	assert.Equal(t, &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor}, res.User)
}

func TestLogin_IgnoresStoredToken(t *testing.T) {
	var gotAuth string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "new",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 3, "name": "Mentee", "role": "mentee"},
		})
	})
	env.login(t, "old", &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor})

	res, err := env.client.For(testScope).Login(context.Background(), "Mentee", model.RoleMentee, "mentee123")
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.Equal(t, "new", res.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
	})

	_, err := env.client.For(testScope).Login(context.Background(), "Mentor", model.RoleMentor, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Len(t, env.redirects, 1)
}

func TestLogin_Validation(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})

	_, err := env.client.For(testScope).Login(context.Background(), "  ", model.RoleMentor, "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.client.For(testScope).Login(context.Background(), "Bob", model.Role("Owner"), "x")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListTodos_Scenario(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/mentee/3/todos", r.URL.Path)
		assert.Equal(t, "Bearer mentee-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{{
			"id":          1,
			"title":       "Task",
			"description": "Do it",
			"due_date":    "2026-03-01",
			"completed":   false,
			"mentee_id":   3,
		}})
	})
	env.login(t, "mentee-token", &model.User{ID: "3", Name: "Mentee", Role: model.RoleMentee})

	todos, err := env.client.For(testScope).ListTodos(context.Background(), "3")
	require.NoError(t, err)

	want := []*model.Todo{{
		ID:          "1",
		Title:       "Task",
		Description: "Do it",
		DueDate:     "2026-03-01",
		Completed:   false,
		MenteeID:    "3",
	}}
	if diff := cmp.Diff(want, todos); diff != "" {
		t.Errorf("todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSetMeetLink(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/mentor/2/meet-link", r.URL.Path)
		var body meetLinkPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://meet.google.com/abc", body.MeetLink)
		writeJSON(w, http.StatusOK, body)
	})
	env.login(t, "mentor-token", &model.User{ID: "2", Name: "Mentor", Role: model.RoleMentor})

	link, err := env.client.For(testScope).SetMeetLink(context.Background(), "2", "  https://meet.google.com/abc ")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/abc", link)

	_, err = env.client.For(testScope).SetMeetLink(context.Background(), "2", "meet.google.com/abc")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMentorForMentee(t *testing.T) {
	assigned := true
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mentee/3/mentor", r.URL.Path)
		if !assigned {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mentor_name": "Alice", "meet_link": "https://meet/x"})
	})

	info, err := env.client.For(testScope).GetMentorForMentee(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, &model.MentorInfo{MentorName: "Alice", MeetLink: "https://meet/x"}, info)

	assigned = false
	info, err = env.client.For(testScope).GetMentorForMentee(context.Background(), "3")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestToggleTodo(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/mentee/todos/5/toggle", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 5, "title": "T", "description": "D", "due_date": "2026-03-01", "completed": true, "mentee_id": 3,
		})
	})

	todo, err := env.client.For(testScope).ToggleTodo(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, todo.Completed)
	assert.Equal(t, "5", todo.ID)
}

func TestMapMentor_SendsNumericIDs(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"mentor_id":2,"mentee_id":3}`, string(raw))
		writeJSON(w, http.StatusOK, map[string]any{"message": "Mentor mapped to mentee successfully", "mentor_id": 2, "mentee_id": 3})
	})

	res, err := env.client.For(testScope).MapMentor(context.Background(), "2", "3")
	require.NoError(t, err)
	assert.Equal(t, &model.MapResult{Message: "Mentor mapped to mentee successfully", MentorID: "2", MenteeID: "3"}, res)
}

func TestLogSession(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body logSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, wireID("3"), body.MenteeID)
		assert.Equal(t, 7, body.FluencyScore)
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 9, "mentor_name": "Mentor", "mentee_name": "Mentee", "date": body.Date,
			"fluency_score": body.FluencyScore, "confidence_score": body.ConfidenceScore,
			"notes": body.Notes, "next_steps": body.NextSteps,
		})
	})
	conn := env.client.For(testScope)

	rec, err := conn.LogSession(context.Background(), model.NewSessionRecord{
		MenteeID: "3", Date: "2026-02-14", FluencyScore: 7, ConfidenceScore: 6,
		Notes: "Good progress", NextSteps: "Practice",
	})
	require.NoError(t, err)
	assert.Equal(t, &model.SessionRecord{
		ID: "9", MentorName: "Mentor", MenteeName: "Mentee", Date: "2026-02-14",
		FluencyScore: 7, ConfidenceScore: 6, Notes: "Good progress", NextSteps: "Practice",
	}, rec)

	_, err = conn.LogSession(context.Background(), model.NewSessionRecord{
		MenteeID: "3", FluencyScore: 11, ConfidenceScore: 6, Notes: "n", NextSteps: "s",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadResource_Multipart(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "English Guide", r.FormValue("title"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "guide.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))

		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "title": "English Guide", "url": "/uploads/guide.pdf", "uploaded_at": "2026-02-10",
		})
	})

	res, err := env.client.For(testScope).UploadResource(context.Background(), "English Guide", "guide.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.URL, "/uploads/guide.pdf"))
	assert.True(t, strings.HasPrefix(res.URL, "http://"))

	_, err = env.client.For(testScope).UploadResource(context.Background(), "Notes", "notes.docx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUser_Validation(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	conn := env.client.For(testScope)

	_, err := conn.CreateUser(context.Background(), "Bob", model.RoleAdmin, "secret1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = conn.CreateUser(context.Background(), "Bob", model.RoleMentor, "123")
	assert.ErrorIs(t, err, ErrValidation)
}
