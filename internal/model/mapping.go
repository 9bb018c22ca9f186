package model

// MentorMenteeMapping связь ментора с подопечным.
// Один ментор может вести нескольких подопечных.
type MentorMenteeMapping struct {
	MentorID   string `json:"mentorId"`
	MentorName string `json:"mentorName"`
	MenteeID   string `json:"menteeId"`
	MenteeName string `json:"menteeName"`
}

// MapResult ответ бэкенда на назначение ментора
type MapResult struct {
	Message  string `json:"message"`
	MentorID string `json:"mentorId"`
	MenteeID string `json:"menteeId"`
}

// MentorInfo ментор подопечного и ссылка на встречу
type MentorInfo struct {
	MentorName string `json:"mentorName"`
	MeetLink   string `json:"meetLink"`
}
