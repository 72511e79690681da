package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/auth"
)

var ErrValidation = errors.New("profile: validation failed")

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// Sync upserts the profile for an external auth identity. Called on first
// login; a profile that already exists is returned untouched.
func (s *Service) Sync(ctx context.Context, externalID, username, fullName string) (*Profile, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, ErrValidation
	}

	id := auth.InternalID(externalID)

	existing, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if username == "" {
		// fall back to the external id so the row is still addressable
		username = externalID
	}
	p := &Profile{
		ID:       id,
		Username: username,
		FullName: fullName,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Profile, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Update(ctx context.Context, id string, username, fullName *string) (*Profile, error) {
	fields := map[string]any{}
	if username != nil {
		if strings.TrimSpace(*username) == "" {
			return nil, ErrValidation
		}
		fields["username"] = *username
	}
	if fullName != nil {
		fields["full_name"] = *fullName
	}
	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// SetAvailability flips the "has ECMO machine available" flag.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*Profile, error) {
	if err := s.repo.Updates(ctx, id, map[string]any{"has_ecmo_available": available}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
