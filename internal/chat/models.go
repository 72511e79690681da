package chat

import "time"

type Chat struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	IsGroup   bool      `gorm:"not null;default:false" json:"is_group"`
	PatientID *string   `gorm:"type:varchar(36);index" json:"patient_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

type Member struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ChatID   string    `gorm:"type:varchar(36);not null;index:uniq_chat_member,unique,priority:1" json:"chat_id"`
	UserID   string    `gorm:"type:varchar(36);not null;index:uniq_chat_member,unique,priority:2;index" json:"user_id"`
	Role     string    `gorm:"type:varchar(16);not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (Member) TableName() string { return "chat_members" }

// Message ids are auto-increment and therefore sortable; display order within
// a chat is by created_at, which the store reports in insert order.
type Message struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID          string    `gorm:"type:varchar(36);not null;index" json:"chat_id"`
	SenderID        string    `gorm:"type:varchar(36);not null;index" json:"sender_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	IsQuestionnaire bool      `gorm:"not null;default:false" json:"is_questionnaire"`
	QuestionnaireID *string   `gorm:"type:varchar(36);index" json:"questionnaire_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
