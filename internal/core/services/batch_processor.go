package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/xmlutils"
)

var pathEntries = xmlutils.MustCompile("//Stmt/Ntry")

// BatchProcessor processes one statement file: parse, map every entry, write
// each resulting record to the ledger store, then relocate the file to the
// success or failure folder. Relocation is the only durable file-level signal
// available to an operator.
type BatchProcessor struct {
	files         ports.FileStore
	ledger        ports.LedgerRecordStore
	mapper        *EntryMapper
	successFolder string
	failureFolder string
	logger        *slog.Logger
}

// NewBatchProcessor creates a BatchProcessor routing processed files into the
// given outcome folders.
func NewBatchProcessor(files ports.FileStore, ledger ports.LedgerRecordStore, mapper *EntryMapper, successFolder, failureFolder string, logger *slog.Logger) *BatchProcessor {
	return &BatchProcessor{
		files:         files,
		ledger:        ledger,
		mapper:        mapper,
		successFolder: successFolder,
		failureFolder: failureFolder,
		logger:        logger,
	}
}

// Process handles one file end to end. The outcome is binary per file: a
// structural error (unreadable file, malformed XML, failed mapping) aborts
// the remaining entries and routes the file to the failure folder. A ledger
// write failure for a single entry is soft: logged, counted, and the loop
// continues. Errors never escape as control flow; they ride in the outcome.
func (p *BatchProcessor) Process(ctx context.Context, ref domain.FileRef) domain.FileOutcome {
	outcome := domain.FileOutcome{File: ref}

	data, err := p.files.LoadBytes(ctx, ref.ID)
	if err != nil {
		outcome.Err = fmt.Errorf("loading file %s: %w", ref.Name, err)
		p.relocate(ctx, &outcome)
		return outcome
	}

	doc, err := xmlutils.Parse(data)
	if err != nil {
		outcome.Err = fmt.Errorf("parsing file %s: %w", ref.Name, err)
		p.relocate(ctx, &outcome)
		return outcome
	}

	entries := doc.Select(pathEntries)
	outcome.EntriesTotal = len(entries)

	for i, entry := range entries {
		record, err := p.mapper.Map(ctx, entry, doc)
		if err != nil {
			// Fatal for this file: entries after the failure point are not
			// attempted.
			outcome.Err = fmt.Errorf("mapping entry %d of %s: %w", i+1, ref.Name, err)
			break
		}

		if err := p.ledger.CreateRecord(ctx, *record); err != nil {
			outcome.WriteFailures++
			p.logger.Warn("ledger write failed",
				slog.String("file", ref.Name),
				slog.Int("entry", i+1),
				slog.String("error", err.Error()))
			continue
		}
		outcome.RecordsWritten++
	}

	outcome.Success = outcome.Err == nil
	p.relocate(ctx, &outcome)
	return outcome
}

// relocate moves the file to its outcome folder. A move failure is logged
// and leaves the file in place to be retried on the next run.
func (p *BatchProcessor) relocate(ctx context.Context, outcome *domain.FileOutcome) {
	target := p.failureFolder
	if outcome.Success {
		target = p.successFolder
	}

	if err := p.files.Move(ctx, outcome.File.ID, target); err != nil {
		p.logger.Error("file relocation failed",
			slog.String("file", outcome.File.Name),
			slog.String("target_folder", target),
			slog.String("error", err.Error()))
		return
	}
	outcome.Relocated = true
}
