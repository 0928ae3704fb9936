package services

import (
	"log/slog"

	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/platform/config"
)

// ServiceContainer holds the wired service graph.
type ServiceContainer struct {
	Currency     *CurrencyService
	ExchangeRate *ExchangeRateService
	Mapper       *EntryMapper
	Processor    *BatchProcessor
	Ingestion    *IngestionService
}

// Repositories groups the persistence-side dependencies of the container.
type Repositories struct {
	Currency     ports.CurrencyRepository
	ExchangeRate ports.ExchangeRateRepository
	Ledger       ports.LedgerRecordStore
}

// NewServiceContainer wires the full pipeline: rate lookups feed the entry
// mapper, the mapper feeds the batch processor, the processor feeds the
// ingestion run.
func NewServiceContainer(cfg *config.Config, repos Repositories, files ports.FileStore, matcher ports.PartyMatcher, logger *slog.Logger) *ServiceContainer {
	c := &ServiceContainer{}
	c.Currency = NewCurrencyService(repos.Currency)
	c.ExchangeRate = NewExchangeRateService(repos.ExchangeRate, c.Currency)
	c.Mapper = NewEntryMapper(c.ExchangeRate, matcher, cfg.TargetCurrencyCode)
	c.Processor = NewBatchProcessor(files, repos.Ledger, c.Mapper, cfg.SuccessFolder, cfg.FailureFolder, logger)
	c.Ingestion = NewIngestionService(files, c.Processor, logger)
	return c
}
