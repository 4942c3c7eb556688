package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.Job)}
}

func (r *fakeJobRepo) CreateJob(_ context.Context, job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.JobID] = &cp
	return nil
}

func (r *fakeJobRepo) GetJob(_ context.Context, jobID string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, entity.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) UpdateJobStatus(_ context.Context, jobID string, status entity.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return entity.ErrJobNotFound
	}
	job.Status = status
	return nil
}

func (r *fakeJobRepo) CompleteJob(_ context.Context, jobID string, artifacts, summary datatypes.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return entity.ErrJobNotFound
	}
	job.Status = entity.StatusCompleted
	job.Artifacts = artifacts
	job.Summary = summary
	return nil
}

func (r *fakeJobRepo) FailJob(_ context.Context, jobID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return entity.ErrJobNotFound
	}
	job.Status = entity.StatusFailed
	job.Error = reason
	return nil
}

type fakeStatusRepo struct {
	mu        sync.Mutex
	status    map[string]string
	artifacts map[string]map[string]string
	// uploadedErr fails every transition to ArtifactUploaded.
	uploadedErr error
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{
		status:    make(map[string]string),
		artifacts: make(map[string]map[string]string),
	}
}

func (r *fakeStatusRepo) SetStatus(_ context.Context, jobID, status string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[jobID] = status
	return nil
}

func (r *fakeStatusRepo) GetStatus(_ context.Context, jobID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.status[jobID]
	if !ok {
		return "", entity.ErrJobNotFound
	}
	return s, nil
}

func (r *fakeStatusRepo) SetArtifactStatus(_ context.Context, jobID, key, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status == ArtifactUploaded && r.uploadedErr != nil {
		return r.uploadedErr
	}
	if r.artifacts[jobID] == nil {
		r.artifacts[jobID] = make(map[string]string)
	}
	r.artifacts[jobID][key] = status
	return nil
}

func (r *fakeStatusRepo) GetProgress(_ context.Context, jobID string) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uploaded := 0
	for _, s := range r.artifacts[jobID] {
		if s == ArtifactUploaded {
			uploaded++
		}
	}
	return uploaded, len(r.artifacts[jobID]), nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.local/" + key + "?signed", nil
}

// fakePublisher fails the first failures calls.
type fakePublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	messages []json.RawMessage
}

func (p *fakePublisher) Publish(_ context.Context, body json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, body)
	return nil
}

func fastBackoff() Backoff {
	return Backoff{BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, MaxAttempts: 3}
}

func intPtr(n int) *int { return &n }
