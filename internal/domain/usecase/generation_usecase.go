package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/generator"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
	"github.com/saral1230/AIML-applied-mocks/pkg/utils"
)

// ErrInvalidJob marks jobs that can never succeed, so redelivery is pointless.
var ErrInvalidJob = errors.New("invalid dataset job")

const (
	ArtifactPending  = "PENDING"
	ArtifactUploaded = "UPLOADED"
)

type JobRepo interface {
	GetJob(ctx context.Context, jobID string) (*entity.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status entity.JobStatus) error
	CompleteJob(ctx context.Context, jobID string, artifacts, summary datatypes.JSON) error
	FailJob(ctx context.Context, jobID string, reason string) error
}

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

type ProgressTracker interface {
	SetStatus(ctx context.Context, jobID, status string, ttl time.Duration) error
	SetArtifactStatus(ctx context.Context, jobID, key, status string) error
}

type GenerationUseCase struct {
	JobRepo           JobRepo
	Storage           Storage
	Publisher         Publisher
	ProgressTracker   ProgressTracker
	ChunkSize         int // sensor rows per CSV part
	UploadConcurrency int
	Backoff           Backoff
	Now               func() time.Time
	Log               *logger.Logger
}

func NewGenerationUseCase(j JobRepo, s Storage, p Publisher, pt ProgressTracker, chunkSize int, log *logger.Logger) *GenerationUseCase {
	return &GenerationUseCase{
		JobRepo:           j,
		Storage:           s,
		Publisher:         p,
		ProgressTracker:   pt,
		ChunkSize:         chunkSize,
		UploadConcurrency: 4,
		Backoff:           DefaultBackoff(),
		Now:               time.Now,
		Log:               log,
	}
}

// IsPermanent reports whether a ProcessJob error should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidJob) || errors.Is(err, entity.ErrJobNotFound)
}

func (u *GenerationUseCase) ProcessJob(ctx context.Context, msg entity.JobCreatedMessage) error {
	log := u.Log.With("job_id", msg.JobID)

	job, err := u.JobRepo.GetJob(ctx, msg.JobID)
	if err != nil {
		return err
	}

	// A redelivered message for a finished job only needs the ready event.
	if job.Status == entity.StatusCompleted {
		log.Info("job already completed, republishing ready event")
		return u.publishReady(ctx, job)
	}

	if err := u.setStatus(ctx, job.JobID, entity.StatusRunning); err != nil {
		return err
	}
	log.Info("generating dataset", "kind", job.Kind, "seed", job.Seed, "format", job.Format)

	artifacts, summary, err := u.generate(job)
	if err != nil {
		return u.fail(ctx, job.JobID, err)
	}

	if err := u.upload(ctx, job.JobID, artifacts); err != nil {
		return u.fail(ctx, job.JobID, err)
	}

	keys := ArtifactKeys(artifacts)
	keysJSON, err := utils.ToJSONColumn(keys)
	if err != nil {
		return u.fail(ctx, job.JobID, err)
	}
	summaryJSON, err := utils.ToJSONColumn(summary)
	if err != nil {
		return u.fail(ctx, job.JobID, err)
	}

	if err := u.JobRepo.CompleteJob(ctx, job.JobID, keysJSON, summaryJSON); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if err := u.ProgressTracker.SetStatus(ctx, job.JobID, string(entity.StatusCompleted), statusTTL); err != nil {
		log.Warn("failed to cache completed status", "error", err)
	}

	job.Status = entity.StatusCompleted
	job.Artifacts = keysJSON
	log.Info("dataset uploaded", "artifacts", len(keys))

	return u.publishReady(ctx, job)
}

func (u *GenerationUseCase) generate(job *entity.Job) ([]Artifact, interface{}, error) {
	g := generator.NewSeeded(job.Seed, generator.WithClock(u.Now))
	prefix := "datasets/" + job.JobID

	switch job.Kind {
	case entity.KindSensor:
		var params entity.SensorParams
		if err := json.Unmarshal(job.Params, &params); err != nil {
			return nil, nil, fmt.Errorf("%w: decode sensor params: %w", ErrInvalidJob, err)
		}
		readings, err := g.SensorReadings(params)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
		artifacts, err := RenderSensor(prefix, readings, job.Format, u.ChunkSize)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
		return artifacts, generator.SummarizeSensor(readings), nil

	case entity.KindBatch:
		var params entity.BatchParams
		if err := json.Unmarshal(job.Params, &params); err != nil {
			return nil, nil, fmt.Errorf("%w: decode batch params: %w", ErrInvalidJob, err)
		}
		ds, err := g.BatchDataset(params)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
		artifacts, err := RenderBatch(prefix, ds, job.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
		return artifacts, generator.SummarizeBatch(ds), nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, job.Kind)
	}
}

// upload registers every artifact as pending first so progress has a stable
// total, then uploads them concurrently.
func (u *GenerationUseCase) upload(ctx context.Context, jobID string, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := u.ProgressTracker.SetArtifactStatus(ctx, jobID, a.Key, ArtifactPending); err != nil {
			return fmt.Errorf("track artifact %s: %w", a.Key, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if u.UploadConcurrency > 0 {
		g.SetLimit(u.UploadConcurrency)
	}
	for _, a := range artifacts {
		g.Go(func() error {
			if err := u.Storage.Upload(gctx, a.Key, a.Data, a.ContentType); err != nil {
				return fmt.Errorf("upload %s: %w", a.Key, err)
			}
			if err := u.ProgressTracker.SetArtifactStatus(gctx, jobID, a.Key, ArtifactUploaded); err != nil {
				u.Log.Warn("failed to track uploaded artifact", "job_id", jobID, "key", a.Key, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (u *GenerationUseCase) setStatus(ctx context.Context, jobID string, status entity.JobStatus) error {
	if err := u.JobRepo.UpdateJobStatus(ctx, jobID, status); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if err := u.ProgressTracker.SetStatus(ctx, jobID, string(status), statusTTL); err != nil {
		return fmt.Errorf("cache job status: %w", err)
	}
	return nil
}

// fail records cause on the job and returns it.
func (u *GenerationUseCase) fail(ctx context.Context, jobID string, cause error) error {
	u.Log.Error("dataset job failed", "job_id", jobID, "error", cause)

	if err := u.JobRepo.FailJob(ctx, jobID, cause.Error()); err != nil {
		u.Log.Error("failed to mark job failed", "job_id", jobID, "error", err)
	}
	if err := u.ProgressTracker.SetStatus(ctx, jobID, string(entity.StatusFailed), statusTTL); err != nil {
		u.Log.Warn("failed to cache failed status", "job_id", jobID, "error", err)
	}
	return cause
}

func (u *GenerationUseCase) publishReady(ctx context.Context, job *entity.Job) error {
	var keys []string
	if len(job.Artifacts) > 0 {
		if err := json.Unmarshal(job.Artifacts, &keys); err != nil {
			return fmt.Errorf("%w: decode artifacts: %w", ErrInvalidJob, err)
		}
	}

	msg, err := utils.ToRawMessage(entity.DatasetReadyMessage{
		JobID:     job.JobID,
		Kind:      job.Kind,
		Format:    job.Format,
		Artifacts: keys,
	})
	if err != nil {
		return err
	}
	if err := publishWithRetry(ctx, u.Publisher, msg, u.Backoff); err != nil {
		return fmt.Errorf("publish ready event: %w", err)
	}
	return nil
}
