package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByUserDesc returns all of a user's notifications, newest first.
func (r *Repo) ListByUserDesc(ctx context.Context, userID string) ([]Notification, error) {
	var ns []Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

func (r *Repo) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Notification{}).Error
}

func (r *Repo) DeleteByPatient(ctx context.Context, patientID string) error {
	return r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Delete(&Notification{}).Error
}

// Job CRUD
func (r *Repo) CreateJob(ctx context.Context, job *FanoutJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*FanoutJob, error) {
	var j FanoutJob
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&FanoutJob{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string, recipients int) error {
	return r.db.WithContext(ctx).Model(&FanoutJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          JobSucceeded,
			"recipient_count": recipients,
			"error":           nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&FanoutJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          JobFailed,
			"error":           errMsg,
			"recipient_count": nil,
		}).Error
}
