package patient

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

func (r *Repo) Create(ctx context.Context, p *Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]Patient, error) {
	var ps []Patient
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Patient{}).Error
}
