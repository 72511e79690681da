package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/patient"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

// Publisher pushes a freshly inserted notification row onto the recipient's
// live channel.
type Publisher interface {
	PublishNotification(ctx context.Context, userID string, payload []byte) error
}

// Fanout turns one FanoutJob into per-recipient notification rows plus a
// push per row. Recipients are every profile except the creating clinician.
type Fanout struct {
	repo     *Repo
	patients *patient.Repo
	profiles *profile.Repo
	pub      Publisher
}

func NewFanout(repo *Repo, patients *patient.Repo, profiles *profile.Repo, pub Publisher) *Fanout {
	return &Fanout{repo: repo, patients: patients, profiles: profiles, pub: pub}
}

// Run processes one job. Row inserts are the system of record; a publish
// failure after a successful insert is logged and the recipient still sees
// the row on their next LoadInitial.
func (f *Fanout) Run(ctx context.Context, jobID string) error {
	_ = f.repo.UpdateJobStatusRunning(ctx, jobID)

	job, err := f.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	p, err := f.patients.GetByID(ctx, job.PatientID)
	if err != nil {
		_ = f.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	recipients, err := f.profiles.ListAll(ctx)
	if err != nil {
		_ = f.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	sent := 0
	for _, r := range recipients {
		if r.ID == job.CreatedByUserID {
			continue
		}
		n := &Notification{
			ID:        uuid.NewString(),
			UserID:    r.ID,
			PatientID: p.ID,
			Message:   fmt.Sprintf("New patient added: %s", p.Name),
		}
		if err := f.repo.Insert(ctx, n); err != nil {
			_ = f.repo.MarkJobFailed(ctx, jobID, err.Error())
			return err
		}
		sent++

		if f.pub != nil {
			payload, err := json.Marshal(n)
			if err == nil {
				err = f.pub.PublishNotification(ctx, r.ID, payload)
			}
			if err != nil {
				log.Printf("notification publish failed job=%s user=%s err=%v", jobID, r.ID, err)
			}
		}
	}

	if err := f.repo.MarkJobSucceeded(ctx, jobID, sent); err != nil {
		return err
	}
	return nil
}
