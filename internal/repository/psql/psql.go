package psql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

type GormJobRepo struct {
	DB *gorm.DB
}

func NewGormJobRepo(db *gorm.DB) *GormJobRepo {
	return &GormJobRepo{DB: db}
}

func (r *GormJobRepo) Migrate() error {
	return r.DB.AutoMigrate(&entity.Job{})
}

func (r *GormJobRepo) CreateJob(ctx context.Context, job *entity.Job) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *GormJobRepo) GetJob(ctx context.Context, jobID string) (*entity.Job, error) {
	job := &entity.Job{}
	if err := r.DB.WithContext(ctx).First(job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entity.ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

func (r *GormJobRepo) UpdateJobStatus(ctx context.Context, jobID string, status entity.JobStatus) error {
	return r.update(ctx, jobID, map[string]interface{}{"status": status})
}

func (r *GormJobRepo) CompleteJob(ctx context.Context, jobID string, artifacts, summary datatypes.JSON) error {
	return r.update(ctx, jobID, map[string]interface{}{
		"status":    entity.StatusCompleted,
		"artifacts": artifacts,
		"summary":   summary,
		"error":     "",
	})
}

func (r *GormJobRepo) FailJob(ctx context.Context, jobID string, reason string) error {
	return r.update(ctx, jobID, map[string]interface{}{
		"status": entity.StatusFailed,
		"error":  reason,
	})
}

func (r *GormJobRepo) update(ctx context.Context, jobID string, fields map[string]interface{}) error {
	res := r.DB.WithContext(ctx).Model(&entity.Job{}).
		Where("job_id = ?", jobID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update job %s: %w", jobID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entity.ErrJobNotFound, jobID)
	}
	return nil
}
