package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
)

const (
	artifactTTL = 24 * time.Hour
	// artifactUploaded mirrors usecase.ArtifactUploaded.
	artifactUploaded = "UPLOADED"
)

type RedisRepo struct {
	Client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{Client: client}
}

func statusKey(jobID string) string {
	return "dataset_status:" + jobID
}

func artifactKey(jobID, key string) string {
	return fmt.Sprintf("dataset:%s:artifact:%s", jobID, key)
}

func (r *RedisRepo) SetStatus(ctx context.Context, jobID, status string, ttl time.Duration) error {
	return r.Client.Set(ctx, statusKey(jobID), status, ttl).Err()
}

func (r *RedisRepo) GetStatus(ctx context.Context, jobID string) (string, error) {
	status, err := r.Client.Get(ctx, statusKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", entity.ErrJobNotFound, jobID)
	}
	return status, err
}

func (r *RedisRepo) SetArtifactStatus(ctx context.Context, jobID, key, status string) error {
	return r.Client.Set(ctx, artifactKey(jobID, key), status, artifactTTL).Err()
}

// GetProgress counts uploaded artifacts among all tracked ones.
func (r *RedisRepo) GetProgress(ctx context.Context, jobID string) (uploaded, total int, err error) {
	pattern := artifactKey(jobID, "*")

	var keys []string
	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, 0, err
	}
	if len(keys) == 0 {
		return 0, 0, nil
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, 0, err
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		total++
		if s == artifactUploaded {
			uploaded++
		}
	}
	return uploaded, total, nil
}
