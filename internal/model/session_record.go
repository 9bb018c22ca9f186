package model

// Границы оценок в записи о занятии
const (
	MinScore = 1
	MaxScore = 10
)

// SessionRecord запись о проведённой встрече ментора с подопечным
type SessionRecord struct {
	ID              string `json:"id"`
	MentorName      string `json:"mentorName"`
	MenteeName      string `json:"menteeName"`
	Date            string `json:"date"`
	FluencyScore    int    `json:"fluencyScore"`
	ConfidenceScore int    `json:"confidenceScore"`
	Notes           string `json:"notes"`
	NextSteps       string `json:"nextSteps"`
}

// NewSessionRecord данные для создания записи о встрече
type NewSessionRecord struct {
	MenteeID        string
	Date            string // YYYY-MM-DD
	FluencyScore    int
	ConfidenceScore int
	Notes           string
	NextSteps       string
}

// ValidScore проверяет что оценка в диапазоне 1..10
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
