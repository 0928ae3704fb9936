package ports

import (
	"context"
	"time"

	"github.com/atworth/bankfeed/internal/core/domain"
)

// Note: every operation takes a context; the collaborators behind these ports
// are remote systems from the core's perspective.

// FileStore holds inbound statement files grouped into logical folders.
type FileStore interface {
	// List returns the files in a folder ordered by name ascending. The
	// ordering is load-bearing: it fixes the processing order.
	List(ctx context.Context, folderID string) ([]domain.FileRef, error)

	// LoadBytes returns the raw contents of one file.
	LoadBytes(ctx context.Context, fileID string) ([]byte, error)

	// Move relocates a file into another folder. Move, not copy.
	Move(ctx context.Context, fileID, folderID string) error

	// Save stores a new file into a folder and returns its reference.
	Save(ctx context.Context, folderID, name string, data []byte) (domain.FileRef, error)
}

// LedgerRecordStore persists normalized payment records ("bankstatement"
// records in the target ledger).
type LedgerRecordStore interface {
	CreateRecord(ctx context.Context, entry domain.PaymentEntry) error
}

// LedgerRecordReader exposes the operator-facing views over created records.
type LedgerRecordReader interface {
	// ListCreatedSince returns records created at or after the given instant,
	// newest first.
	ListCreatedSince(ctx context.Context, since time.Time) ([]domain.PaymentEntry, error)
}

// ExchangeRateReader defines read operations for exchange rate data.
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the most recent rate between two currencies.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// FindExchangeRateAsOf retrieves the rate effective on or before asOf.
	FindExchangeRateAsOf(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepository combines all exchange rate repository interfaces.
type ExchangeRateRepository interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// CurrencyRepository defines persistence operations for currencies.
type CurrencyRepository interface {
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
