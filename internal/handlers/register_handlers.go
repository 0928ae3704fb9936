package handlers

import (
	"log"

	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/atworth/bankfeed/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Dependencies groups the externally wired collaborators the handlers need
// beyond the service container.
type Dependencies struct {
	Files     ports.FileStore
	Submitter ports.JobSubmitter
	JobStore  jobs.Store
	Records   ports.LedgerRecordReader
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceContainer,
	deps Dependencies,
) {
	registerValidators()

	r.GET("/", getHome)
	r.GET("/health", getHealth)

	// The upload form is rate limited; a burst of concurrent uploads to the
	// same folder is the main way the intake misbehaves.
	registerUploadRoutes(r, deps.Files, deps.Submitter, cfg.UploadFolder, cfg.RecentRecordsURL, uploadRateLimiter(cfg))

	setupAPIV1Routes(r, cfg, svc, deps)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceContainer,
	deps Dependencies,
) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, svc.Currency)
	registerExchangeRateRoutes(v1, svc.ExchangeRate)
	registerIngestRoutes(v1, deps.Submitter, deps.JobStore, cfg.InputFolder)
	registerRecordRoutes(v1, deps.Records)
}

// uploadRateLimiter builds the rate-limit middleware for the upload POST.
func uploadRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.UploadRateLimit)
	if err != nil {
		log.Printf("Warning: Invalid UPLOAD_RATE_LIMIT (%q). Defaulting to 10-M.\n", cfg.UploadRateLimit)
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}
