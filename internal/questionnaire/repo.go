package questionnaire

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

func (r *Repo) Create(ctx context.Context, q *Questionnaire) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Questionnaire, error) {
	var q Questionnaire
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repo) ListByChat(ctx context.Context, chatID string) ([]Questionnaire, error) {
	var qs []Questionnaire
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

func (r *Repo) InsertQuestion(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *Repo) GetQuestionByID(ctx context.Context, id string) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repo) ListQuestions(ctx context.Context, questionnaireID string) ([]Question, error) {
	var qs []Question
	if err := r.db.WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID).
		Order("created_at ASC, id ASC").
		Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

func (r *Repo) InsertResponse(ctx context.Context, resp *Response) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *Repo) ListResponses(ctx context.Context, questionID string) ([]Response, error) {
	var rs []Response
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC, id ASC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}
