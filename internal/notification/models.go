package notification

import "time"

type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PatientID string    `gorm:"type:varchar(36);not null;index" json:"patient_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// FanoutJob tracks one "patient created" broadcast through the worker.
type FanoutJob struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	PatientID       string `gorm:"type:varchar(36);not null;index"`
	CreatedByUserID string `gorm:"type:varchar(36);not null"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	RecipientCount *int

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FanoutJob) TableName() string { return "notification_fanout_jobs" }
