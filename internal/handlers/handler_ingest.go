package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/dto"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestHandler triggers batch ingestion runs and exposes job status.
type ingestHandler struct {
	submitter   ports.JobSubmitter
	jobStore    jobs.Store
	inputFolder string
}

// registerIngestRoutes registers the batch ingestion routes.
func registerIngestRoutes(rg *gin.RouterGroup, submitter ports.JobSubmitter, jobStore jobs.Store, inputFolder string) {
	h := &ingestHandler{
		submitter:   submitter,
		jobStore:    jobStore,
		inputFolder: inputFolder,
	}

	rg.POST("/ingest/run", h.runIngestion)
	rg.GET("/jobs/:jobID", h.getJob)
}

func (h *ingestHandler) runIngestion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	jobID, err := h.submitter.Submit(c.Request.Context(), jobs.IngestJob{
		Type:     jobs.JobTypeIngestFolder,
		FolderID: h.inputFolder,
	})
	if err != nil {
		logger.Error("Failed to submit ingestion job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit ingestion job"})
		return
	}

	logger.Info("Ingestion job submitted",
		slog.String("job_id", jobID),
		slog.String("folder_id", h.inputFolder),
	)
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *ingestHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	job, err := h.jobStore.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			logger.Error("Failed to get job", slog.String("job_id", jobID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}
