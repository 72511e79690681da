package notification

import (
	"context"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
)

// JobPublisher hands a job id to the queue for the worker to pick up.
type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// Enqueuer records a FanoutJob and enqueues it. Satisfies the patient
// service's FanoutEnqueuer.
type Enqueuer struct {
	repo *Repo
	pub  JobPublisher
}

func NewEnqueuer(repo *Repo, pub JobPublisher) *Enqueuer {
	return &Enqueuer{repo: repo, pub: pub}
}

func (e *Enqueuer) EnqueuePatientCreated(ctx context.Context, patientID, createdByUserID string) error {
	jobID, err := common.NewULID()
	if err != nil {
		return err
	}
	job := &FanoutJob{
		ID:              jobID,
		PatientID:       patientID,
		CreatedByUserID: createdByUserID,
		Status:          JobQueued,
	}
	if err := e.repo.CreateJob(ctx, job); err != nil {
		return err
	}
	return e.pub.PublishJob(ctx, job.ID)
}
