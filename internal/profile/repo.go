package profile

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

func (r *Repo) Create(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every profile ordered by username; used to populate
// member-selection pickers.
func (r *Repo) ListAll(ctx context.Context) ([]Profile, error) {
	var ps []Profile
	if err := r.db.WithContext(ctx).
		Order("username ASC").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *Repo) Updates(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", id).
		Updates(fields).Error
}
