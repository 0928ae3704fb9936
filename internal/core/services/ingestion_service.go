package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
)

// IngestionService runs the whole pipeline over an input folder: it lists the
// candidate files and processes each one, isolating failures so one bad file
// never stops the rest of the batch.
type IngestionService struct {
	files     ports.FileStore
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewIngestionService creates an IngestionService.
func NewIngestionService(files ports.FileStore, processor *BatchProcessor, logger *slog.Logger) *IngestionService {
	return &IngestionService{
		files:     files,
		processor: processor,
		logger:    logger,
	}
}

// Run processes every file currently in folderID in name order and returns
// the per-file outcomes. Only the initial listing can fail the run as a
// whole; per-file failures are reported in their outcome and processing
// continues. There is no retry within a run: rerunning the pipeline is the
// retry mechanism, and failure-routed files stay out of the input folder.
func (s *IngestionService) Run(ctx context.Context, folderID string) ([]domain.FileOutcome, error) {
	refs, err := s.files.List(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("listing folder %s: %w", folderID, err)
	}
	s.logger.Info("bank files to process", slog.Int("count", len(refs)), slog.String("folder", folderID))

	outcomes := make([]domain.FileOutcome, 0, len(refs))
	for _, ref := range refs {
		outcome := s.processor.Process(ctx, ref)
		if outcome.Success {
			s.logger.Info("file processed",
				slog.String("file", ref.Name),
				slog.Int("entries", outcome.EntriesTotal),
				slog.Int("records_written", outcome.RecordsWritten),
				slog.Int("write_failures", outcome.WriteFailures))
		} else {
			s.logger.Error("file processing failed",
				slog.String("file", ref.Name),
				slog.String("error", outcome.Err.Error()))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
