package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
)

type DatasetKind string

const (
	KindSensor DatasetKind = "sensor"
	KindBatch  DatasetKind = "batch"
)

func (k DatasetKind) Valid() bool {
	return k == KindSensor || k == KindBatch
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// Job is one dataset generation request and its outcome.
type Job struct {
	JobID       string         `gorm:"primaryKey;type:uuid" json:"job_id"`
	Kind        DatasetKind    `gorm:"not null;type:text" json:"kind"`
	RequestedBy string         `gorm:"not null;type:text" json:"requested_by"`
	Seed        uint64         `gorm:"not null" json:"seed"`
	Format      Format         `gorm:"not null;type:text" json:"format"`
	Params      datatypes.JSON `gorm:"type:jsonb" json:"params"`
	Artifacts   datatypes.JSON `gorm:"type:jsonb" json:"artifacts"`
	Summary     datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	Error       string         `gorm:"type:text" json:"error,omitempty"`
	Status      JobStatus      `gorm:"not null;type:text" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Job) TableName() string {
	return "dataset_jobs"
}

// JobCreatedMessage is published by the gateway and consumed by the worker.
type JobCreatedMessage struct {
	JobID string      `json:"job_id"`
	Kind  DatasetKind `json:"kind"`
}

// DatasetReadyMessage announces uploaded artifacts to downstream consumers
// such as model training.
type DatasetReadyMessage struct {
	JobID     string      `json:"job_id"`
	Kind      DatasetKind `json:"kind"`
	Format    Format      `json:"format"`
	Artifacts []string    `json:"artifacts"`
}
