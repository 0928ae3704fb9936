package handlers

import (
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single statement upload.
const maxUploadBytes = 10 << 20

var uploadFormTmpl = template.Must(template.New("upload_form").Parse(`<!DOCTYPE html>
<html>
<head><title>Bank Statement Upload</title></head>
<body>
<h1>Bank Statement Upload</h1>
<form method="POST" enctype="multipart/form-data">
  <p><input type="file" name="statement" accept=".xml"></p>
  <p><button type="submit">Upload and process</button></p>
</form>
</body>
</html>
`))

var uploadStatusTmpl = template.Must(template.New("upload_status").Parse(`<!DOCTYPE html>
<html>
<head><title>Upload Received</title></head>
<body>
<h1>Upload received</h1>
<p>File <b>{{.FileName}}</b> was stored and a processing job was submitted.</p>
<p><a href="/api/v1/jobs/{{.JobID}}">Job status</a></p>
<p><a href="{{.RecentRecordsURL}}">Records created today</a></p>
</body>
</html>
`))

var uploadRetryTmpl = template.Must(template.New("upload_retry").Parse(`<!DOCTYPE html>
<html>
<head><title>Upload Failed</title></head>
<body>
<h1>Something went wrong</h1>
<p>Your file could not be accepted right now. Please try again later.</p>
<p><a href="">Back to the upload form</a></p>
</body>
</html>
`))

// uploadHandler serves the statement upload form and accepts submissions.
type uploadHandler struct {
	files            ports.FileStore
	submitter        ports.JobSubmitter
	uploadFolder     string
	recentRecordsURL string
}

// registerUploadRoutes registers the statement upload form routes.
func registerUploadRoutes(r gin.IRouter, files ports.FileStore, submitter ports.JobSubmitter, uploadFolder, recentRecordsURL string, mw ...gin.HandlerFunc) {
	h := &uploadHandler{
		files:            files,
		submitter:        submitter,
		uploadFolder:     uploadFolder,
		recentRecordsURL: recentRecordsURL,
	}

	upload := r.Group("/upload")
	{
		upload.GET("", h.getUploadForm)
		upload.POST("", append(mw, h.postUpload)...)
	}
}

func (h *uploadHandler) getUploadForm(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = uploadFormTmpl.Execute(c.Writer, nil)
}

func (h *uploadHandler) postUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("statement")
	if err != nil {
		logger.Warn("Upload request without a statement file", slog.String("error", err.Error()))
		h.renderRetryPage(c)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		logger.Warn("Uploaded statement exceeds size limit",
			slog.String("file_name", fileHeader.Filename),
			slog.Int64("size", fileHeader.Size),
		)
		h.renderRetryPage(c)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded statement", slog.String("error", err.Error()))
		h.renderRetryPage(c)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		logger.Error("Failed to read uploaded statement", slog.String("error", err.Error()))
		h.renderRetryPage(c)
		return
	}

	fileRef, err := h.files.Save(c.Request.Context(), h.uploadFolder, fileHeader.Filename, data)
	if err != nil {
		logger.Error("Failed to store uploaded statement",
			slog.String("file_name", fileHeader.Filename),
			slog.String("error", err.Error()),
		)
		h.renderRetryPage(c)
		return
	}

	jobID, err := h.submitter.Submit(c.Request.Context(), jobs.IngestJob{
		Type:     jobs.JobTypeIngestFolder,
		FolderID: h.uploadFolder,
	})
	if err != nil {
		logger.Error("Failed to submit ingestion job for upload",
			slog.String("file_id", fileRef.ID),
			slog.String("error", err.Error()),
		)
		h.renderRetryPage(c)
		return
	}

	logger.Info("Statement uploaded and ingestion job submitted",
		slog.String("file_id", fileRef.ID),
		slog.String("job_id", jobID),
	)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = uploadStatusTmpl.Execute(c.Writer, gin.H{
		"FileName":         fileRef.Name,
		"JobID":            jobID,
		"RecentRecordsURL": h.recentRecordsURL,
	})
}

// renderRetryPage answers every synchronous upload failure the same way.
// The caller gets no partial detail, only an invitation to retry.
func (h *uploadHandler) renderRetryPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusServiceUnavailable)
	_ = uploadRetryTmpl.Execute(c.Writer, nil)
}
