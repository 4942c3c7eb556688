package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/generator"
	"github.com/saral1230/AIML-applied-mocks/internal/tabular"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
	"github.com/saral1230/AIML-applied-mocks/pkg/utils"
)

var ErrInvalidRequest = errors.New("invalid dataset request")

const (
	statusTTL      = time.Hour
	presignExpiry  = 24 * time.Hour
	defaultBatches = 50
)

type JobStatusRepo interface {
	SetStatus(ctx context.Context, jobID, status string, ttl time.Duration) error
	GetStatus(ctx context.Context, jobID string) (string, error)
	GetProgress(ctx context.Context, jobID string) (uploaded, total int, err error)
}

type URLSigner interface {
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type PsqlJobRepo interface {
	CreateJob(ctx context.Context, job *entity.Job) error
	GetJob(ctx context.Context, jobID string) (*entity.Job, error)
}

// JobRequest is a validated-on-create generation request. Only the params
// matching Kind are used.
type JobRequest struct {
	Kind        entity.DatasetKind
	RequestedBy string
	Seed        *uint64
	Format      entity.Format
	Sensor      entity.SensorParams
	Batch       BatchRequest
}

// BatchRequest names batches either explicitly or by count. A nil count
// takes the default; an explicit zero is kept and later rejected.
type BatchRequest struct {
	BatchIDs         []string               `json:"batch_ids"`
	BatchCount       *int                   `json:"batch_count"`
	ReadingsPerParam *int                   `json:"readings_per_param"`
	Vocabulary       entity.BatchVocabulary `json:"vocabulary"`
}

// Params resolves the request against the built-in vocabulary.
func (r BatchRequest) Params() entity.BatchParams {
	return r.Resolve(entity.DefaultBatchVocabulary())
}

// Resolve fills defaults for unset fields: 50 generated batch ids, 3
// readings per parameter and base for every empty vocabulary list.
func (r BatchRequest) Resolve(base entity.BatchVocabulary) entity.BatchParams {
	ids := r.BatchIDs
	if len(ids) == 0 {
		n := defaultBatches
		if r.BatchCount != nil {
			n = *r.BatchCount
		}
		ids = generator.BatchIDs(n)
	}
	readings := entity.DefaultBatchParams(nil).ReadingsPerParam
	if r.ReadingsPerParam != nil {
		readings = *r.ReadingsPerParam
	}
	return entity.BatchParams{
		BatchIDs:         ids,
		ReadingsPerParam: readings,
		Vocabulary:       r.Vocabulary.Merge(base),
	}
}

type ArtifactURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type JobStatusView struct {
	JobID     string           `json:"job_id"`
	Status    entity.JobStatus `json:"status"`
	Uploaded  int              `json:"uploaded"`
	Total     int              `json:"total"`
	Error     string           `json:"error,omitempty"`
	Artifacts []ArtifactURL    `json:"artifacts,omitempty"`
}

type DatasetUseCase struct {
	RedisRepo    JobStatusRepo
	S3Repo       URLSigner
	PostgresRepo PsqlJobRepo
	Publisher    Publisher
	Backoff      Backoff
	// Vocabulary backs every list a batch request leaves empty.
	Vocabulary   entity.BatchVocabulary
	Now          func() time.Time
	Log          *logger.Logger
}

func NewDatasetUseCase(r JobStatusRepo, s3 URLSigner, psql PsqlJobRepo, pub Publisher, log *logger.Logger) *DatasetUseCase {
	return &DatasetUseCase{
		RedisRepo:    r,
		PostgresRepo: psql,
		S3Repo:       s3,
		Publisher:    pub,
		Backoff:      DefaultBackoff(),
		Vocabulary:   entity.DefaultBatchVocabulary(),
		Now:          time.Now,
		Log:          log,
	}
}

func (u *DatasetUseCase) CreateJob(ctx context.Context, req JobRequest) (*entity.Job, error) {
	if req.Format == "" {
		req.Format = entity.FormatCSV
	}
	if !req.Format.Valid() {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, req.Format)
	}

	params, err := u.validateParams(req)
	if err != nil {
		return nil, err
	}
	paramsJSON, err := utils.ToJSONColumn(params)
	if err != nil {
		return nil, err
	}

	seed := uint64(u.Now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}

	now := u.Now()
	job := &entity.Job{
		JobID:       uuid.New().String(),
		Kind:        req.Kind,
		RequestedBy: req.RequestedBy,
		Seed:        seed,
		Format:      req.Format,
		Params:      paramsJSON,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.PostgresRepo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := u.RedisRepo.SetStatus(ctx, job.JobID, string(job.Status), statusTTL); err != nil {
		return nil, fmt.Errorf("set job status: %w", err)
	}

	msg, err := utils.ToRawMessage(entity.JobCreatedMessage{JobID: job.JobID, Kind: job.Kind})
	if err != nil {
		return nil, err
	}

	if err := publishWithRetry(ctx, u.Publisher, msg, u.Backoff); err != nil {
		return nil, fmt.Errorf("publish job %s: %w", job.JobID, err)
	}

	u.Log.Info("dataset job created", "job_id", job.JobID, "kind", job.Kind, "seed", job.Seed)
	return job, nil
}

func (u *DatasetUseCase) validateParams(req JobRequest) (interface{}, error) {
	switch req.Kind {
	case entity.KindSensor:
		if err := generator.ValidateSensorParams(req.Sensor); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		// header row included
		if req.Format == entity.FormatXLSX && req.Sensor.TotalRows()+1 > tabular.MaxXLSXRows {
			return nil, fmt.Errorf("%w: %d rows do not fit one xlsx sheet, use csv", ErrInvalidRequest, req.Sensor.TotalRows())
		}
		return req.Sensor, nil
	case entity.KindBatch:
		if n := req.Batch.BatchCount; n != nil && (*n < 0 || *n > generator.MaxBatches) {
			return nil, fmt.Errorf("%w: batch count must be within [0, %d]", ErrInvalidRequest, generator.MaxBatches)
		}
		if len(req.Batch.BatchIDs) > generator.MaxBatches {
			return nil, fmt.Errorf("%w: more than %d batch ids", ErrInvalidRequest, generator.MaxBatches)
		}
		if n := req.Batch.ReadingsPerParam; n != nil && *n < 0 {
			return nil, fmt.Errorf("%w: readings per param must not be negative", ErrInvalidRequest)
		}
		params := req.Batch.Resolve(u.Vocabulary)
		if err := generator.ValidateBatchParams(params); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return params, nil
	default:
		return nil, fmt.Errorf("%w: unknown dataset kind %q", ErrInvalidRequest, req.Kind)
	}
}

// GetStatus reads the live status from redis and falls back to postgres once
// the redis entry has expired. Completed jobs carry presigned artifact URLs.
func (u *DatasetUseCase) GetStatus(ctx context.Context, jobID string) (*JobStatusView, error) {
	view := &JobStatusView{JobID: jobID}

	statusStr, err := u.RedisRepo.GetStatus(ctx, jobID)
	switch {
	case err == nil:
		view.Status = entity.JobStatus(statusStr)
	case errors.Is(err, entity.ErrJobNotFound):
	default:
		return nil, fmt.Errorf("get job status: %w", err)
	}

	var job *entity.Job
	if view.Status == "" || view.Status == entity.StatusCompleted || view.Status == entity.StatusFailed {
		job, err = u.PostgresRepo.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		view.Status = job.Status
		view.Error = job.Error
	}

	if view.Uploaded, view.Total, err = u.RedisRepo.GetProgress(ctx, jobID); err != nil {
		return nil, fmt.Errorf("get job progress: %w", err)
	}

	if view.Status != entity.StatusCompleted || job == nil {
		return view, nil
	}

	var keys []string
	if len(job.Artifacts) > 0 {
		if err := json.Unmarshal(job.Artifacts, &keys); err != nil {
			return nil, fmt.Errorf("decode artifacts of job %s: %w", jobID, err)
		}
	}
	for _, key := range keys {
		url, err := u.S3Repo.GetPresignedURL(ctx, key, presignExpiry)
		if err != nil {
			return nil, err
		}
		view.Artifacts = append(view.Artifacts, ArtifactURL{Key: key, URL: url})
	}
	if view.Total == 0 {
		view.Uploaded, view.Total = len(keys), len(keys)
	}
	return view, nil
}
