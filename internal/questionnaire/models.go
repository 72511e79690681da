package questionnaire

import "time"

type Questionnaire struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ChatID         string    `gorm:"type:varchar(36);not null;index" json:"chat_id"`
	OpenedByUserID string    `gorm:"type:varchar(36);not null" json:"opened_by_user_id"`
	Title          string    `gorm:"type:varchar(128);not null" json:"title"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Questionnaire) TableName() string { return "questionnaires" }

type Question struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuestionnaireID string    `gorm:"type:varchar(36);not null;index" json:"questionnaire_id"`
	QuestionText    string    `gorm:"type:text;not null" json:"question_text"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Question) TableName() string { return "questions" }

// Responses are append-only: a second answer to the same question is a new
// row, never an overwrite.
type Response struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuestionID   string    `gorm:"type:varchar(36);not null;index" json:"question_id"`
	ResponderID  string    `gorm:"type:varchar(36);not null" json:"responder_id"`
	ResponseText string    `gorm:"type:text;not null" json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Response) TableName() string { return "responses" }

// Status is derived from response presence at read time; it is never stored.
type Status string

const (
	StatusOpen      Status = "open"      // no question answered yet
	StatusAnswering Status = "answering" // some, but not all, questions answered
	StatusCompleted Status = "completed" // every question has at least one response
)

type QuestionView struct {
	Question
	Responses []Response `json:"responses"`
}

type View struct {
	Questionnaire
	Status    Status         `json:"status"`
	Questions []QuestionView `json:"questions"`
}
