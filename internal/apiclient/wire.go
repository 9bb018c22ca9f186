package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// Структуры ответа/запроса бэкенда (snake_case) и их перевод в доменные модели.

// wireID идентификатор: на проводе число, в домене строка
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

// MarshalJSON отправляет числовые ID числом, остальные строкой
func (id wireID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type wireUser struct {
	ID   wireID `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (w wireUser) toModel() (*model.User, error) {
	role, err := model.ParseRole(w.Role)
	if err != nil {
		return nil, fmt.Errorf("decode user %s: %w", w.ID, err)
	}
	return &model.User{
		ID:   string(w.ID),
		Name: w.Name,
		Role: role,
	}, nil
}

func usersToModel(items []wireUser) ([]*model.User, error) {
	users := make([]*model.User, 0, len(items))
	for _, item := range items {
		u, err := item.toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        wireUser `json:"user"`
}

type mapMentorRequest struct {
	MentorID wireID `json:"mentor_id"`
	MenteeID wireID `json:"mentee_id"`
}

type mapMentorResponse struct {
	Message  string `json:"message"`
	MentorID wireID `json:"mentor_id"`
	MenteeID wireID `json:"mentee_id"`
}

func (w mapMentorResponse) toModel() *model.MapResult {
	return &model.MapResult{
		Message:  w.Message,
		MentorID: string(w.MentorID),
		MenteeID: string(w.MenteeID),
	}
}

type wireMapping struct {
	MentorID   wireID `json:"mentor_id"`
	MentorName string `json:"mentor_name"`
	MenteeID   wireID `json:"mentee_id"`
	MenteeName string `json:"mentee_name"`
}

func (w wireMapping) toModel() *model.MentorMenteeMapping {
	return &model.MentorMenteeMapping{
		MentorID:   string(w.MentorID),
		MentorName: w.MentorName,
		MenteeID:   string(w.MenteeID),
		MenteeName: w.MenteeName,
	}
}

type wireResource struct {
	ID         wireID `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploaded_at"`
}

func (w wireResource) toModel() *model.Resource {
	return &model.Resource{
		ID:         string(w.ID),
		Title:      w.Title,
		URL:        w.URL,
		UploadedAt: w.UploadedAt,
	}
}

type wireSessionRecord struct {
	ID              wireID `json:"id"`
	MentorName      string `json:"mentor_name"`
	MenteeName      string `json:"mentee_name"`
	Date            string `json:"date"`
	FluencyScore    int    `json:"fluency_score"`
	ConfidenceScore int    `json:"confidence_score"`
	Notes           string `json:"notes"`
	NextSteps       string `json:"next_steps"`
}

func (w wireSessionRecord) toModel() *model.SessionRecord {
	return &model.SessionRecord{
		ID:              string(w.ID),
		MentorName:      w.MentorName,
		MenteeName:      w.MenteeName,
		Date:            w.Date,
		FluencyScore:    w.FluencyScore,
		ConfidenceScore: w.ConfidenceScore,
		Notes:           w.Notes,
		NextSteps:       w.NextSteps,
	}
}

type logSessionRequest struct {
	MenteeID        wireID `json:"mentee_id"`
	Date            string `json:"date"`
	FluencyScore    int    `json:"fluency_score"`
	ConfidenceScore int    `json:"confidence_score"`
	Notes           string `json:"notes"`
	NextSteps       string `json:"next_steps"`
}

type wireTodo struct {
	ID          wireID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	MenteeID    wireID `json:"mentee_id"`
}

func (w wireTodo) toModel() *model.Todo {
	return &model.Todo{
		ID:          string(w.ID),
		Title:       w.Title,
		Description: w.Description,
		DueDate:     w.DueDate,
		Completed:   w.Completed,
		MenteeID:    string(w.MenteeID),
	}
}

type assignTodoRequest struct {
	MenteeID    wireID `json:"mentee_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type meetLinkPayload struct {
	MeetLink string `json:"meet_link"`
}

type wireMentorInfo struct {
	MentorName string `json:"mentor_name"`
	MeetLink   string `json:"meet_link"`
}
