package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/echoscribe/backend/internal/kv"
)

// Status is a queued transcription's lifecycle state.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job tracks one queued transcription.
type Job struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	FileName    string    `json:"fileName"`
	RecordID    string    `json:"recordId,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ErrJobNotFound is returned for unknown or expired job ids.
var ErrJobNotFound = errors.New("jobs: job not found")

const statusTTL = 24 * time.Hour

// Tracker keeps job state in the KV store under a per-job key. Entries
// expire after a day; job status is throwaway operational data.
type Tracker struct {
	kv  kv.Store
	ttl time.Duration
}

func NewTracker(store kv.Store) *Tracker {
	return &Tracker{kv: store, ttl: statusTTL}
}

// NewID returns a fresh job identifier.
func NewID() string {
	return uuid.NewString()
}

// Create registers a pending job.
func (t *Tracker) Create(ctx context.Context, id, fileName string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:          id,
		Status:      StatusPending,
		FileName:    fileName,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := t.put(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns the job with the given id.
func (t *Tracker) Get(ctx context.Context, id string) (*Job, error) {
	raw, err := t.kv.Get(ctx, jobKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (t *Tracker) SetRunning(ctx context.Context, id string) error {
	return t.update(ctx, id, func(j *Job) {
		j.Status = StatusRunning
	})
}

func (t *Tracker) SetDone(ctx context.Context, id, recordID string) error {
	return t.update(ctx, id, func(j *Job) {
		j.Status = StatusDone
		j.RecordID = recordID
	})
}

func (t *Tracker) SetFailed(ctx context.Context, id string, cause error) error {
	return t.update(ctx, id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = cause.Error()
	})
}

func (t *Tracker) update(ctx context.Context, id string, mutate func(*Job)) error {
	job, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	mutate(job)
	job.UpdatedAt = time.Now().UTC()
	return t.put(ctx, job)
}

func (t *Tracker) put(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	if err := t.kv.Set(ctx, jobKey(job.ID), string(data), t.ttl); err != nil {
		return fmt.Errorf("write job %s: %w", job.ID, err)
	}
	return nil
}

func jobKey(id string) string { return "jobs:" + id }
