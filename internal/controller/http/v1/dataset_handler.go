package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/usecase"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
	"github.com/saral1230/AIML-applied-mocks/pkg/middleware"
)

type DatasetUseCase interface {
	CreateJob(ctx context.Context, req usecase.JobRequest) (*entity.Job, error)
	GetStatus(ctx context.Context, jobID string) (*usecase.JobStatusView, error)
}

type DatasetHandler struct {
	UseCase DatasetUseCase
	Log     *logger.Logger
}

func NewDatasetHandler(u DatasetUseCase, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{UseCase: u, Log: log}
}

// sensorRequest fields omitted from the body keep their defaults.
type sensorRequest struct {
	entity.SensorParams
	Seed   *uint64       `json:"seed"`
	Format entity.Format `json:"format"`
}

type batchRequest struct {
	usecase.BatchRequest
	Seed   *uint64       `json:"seed"`
	Format entity.Format `json:"format"`
}

func (h *DatasetHandler) Register(g *gin.RouterGroup) {
	g.POST("/datasets/sensor", h.CreateSensor)
	g.POST("/datasets/batch", h.CreateBatch)
	g.GET("/datasets/:job_id/status", h.GetStatus)
}

func (h *DatasetHandler) CreateSensor(c *gin.Context) {
	body := sensorRequest{SensorParams: entity.DefaultSensorParams()}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	h.create(c, usecase.JobRequest{
		Kind:   entity.KindSensor,
		Seed:   body.Seed,
		Format: body.Format,
		Sensor: body.SensorParams,
	})
}

func (h *DatasetHandler) CreateBatch(c *gin.Context) {
	var body batchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	h.create(c, usecase.JobRequest{
		Kind:   entity.KindBatch,
		Seed:   body.Seed,
		Format: body.Format,
		Batch:  body.BatchRequest,
	})
}

func (h *DatasetHandler) create(c *gin.Context, req usecase.JobRequest) {
	req.RequestedBy = c.GetString(middleware.ClientIDKey)

	job, err := h.UseCase.CreateJob(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.JobID,
		"kind":   job.Kind,
		"status": job.Status,
		"seed":   job.Seed,
		"format": job.Format,
	})
}

func (h *DatasetHandler) GetStatus(c *gin.Context) {
	view, err := h.UseCase.GetStatus(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DatasetHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DatasetHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	default:
		h.Log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
