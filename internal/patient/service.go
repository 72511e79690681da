package patient

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("patient: missing required fields")

// Geocoder resolves a free-text address when the intake form carries no
// coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// NotificationCleaner removes a patient's notifications ahead of the patient
// row itself.
type NotificationCleaner interface {
	DeleteByPatient(ctx context.Context, patientID string) error
}

// FanoutEnqueuer schedules the "new patient added" notification fan-out.
type FanoutEnqueuer interface {
	EnqueuePatientCreated(ctx context.Context, patientID, createdByUserID string) error
}

type Service struct {
	repo          *Repo
	geocoder      Geocoder
	notifications NotificationCleaner
	fanout        FanoutEnqueuer
}

func NewService(repo *Repo, geocoder Geocoder, notifications NotificationCleaner, fanout FanoutEnqueuer) *Service {
	return &Service{repo: repo, geocoder: geocoder, notifications: notifications, fanout: fanout}
}

// CreateInput carries nil coordinates when the intake form had none; a
// supplied 0,0 pair is a real location, not a request to geocode.
type CreateInput struct {
	Name        string
	SpecialCare string
	Type        string
	Latitude    *float64
	Longitude   *float64
	Address     string

	FirstName  string
	MiddleName string
	LastName   string
	DOB        string
	MRN        string
	Insurance  string

	Weight          float64
	BloodPressure   string
	Pulse           int
	Temperature     float64
	RespirationRate int
	PulseOximetry   int

	FailureType string
	Notes       string
}

// Create validates locally, geocodes when only an address was supplied,
// writes the row, then enqueues the fan-out. An enqueue failure does not
// undo the patient; it is logged and the bell simply stays quiet.
func (s *Service) Create(ctx context.Context, createdByUserID string, in CreateInput) (*Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrValidation
	}

	var lat, lng float64
	switch {
	case in.Latitude != nil && in.Longitude != nil:
		lat, lng = *in.Latitude, *in.Longitude
	case strings.TrimSpace(in.Address) != "" && s.geocoder != nil:
		glat, glng, err := s.geocoder.Geocode(ctx, in.Address)
		if err != nil {
			return nil, err
		}
		lat, lng = glat, glng
	}

	p := &Patient{
		ID:          uuid.NewString(),
		Name:        in.Name,
		SpecialCare: in.SpecialCare,
		Type:        in.Type,
		Latitude:    lat,
		Longitude:   lng,

		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		LastName:   in.LastName,
		DOB:        in.DOB,
		MRN:        in.MRN,
		Insurance:  in.Insurance,

		Weight:          in.Weight,
		BloodPressure:   in.BloodPressure,
		Pulse:           in.Pulse,
		Temperature:     in.Temperature,
		RespirationRate: in.RespirationRate,
		PulseOximetry:   in.PulseOximetry,

		FailureType: in.FailureType,
		Notes:       in.Notes,

		CreatedByUserID: createdByUserID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.fanout != nil {
		if err := s.fanout.EnqueuePatientCreated(ctx, p.ID, createdByUserID); err != nil {
			log.Printf("patient fanout enqueue failed patient=%s err=%v", p.ID, err)
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Patient, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes the patient's notifications first, then the patient row.
// Sequenced, not atomic: a failure between the two leaves a patient without
// notifications, which the next delete attempt cleans up.
func (s *Service) Delete(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifications != nil {
		if err := s.notifications.DeleteByPatient(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}
