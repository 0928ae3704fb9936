package ports

import (
	"context"
	"time"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/shopspring/decimal"
)

// RateSource answers exchange-rate queries against the target currency as of
// a given date.
type RateSource interface {
	Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error)
}

// PartyMatcher looks up a counterparty by name. The shipped implementation
// returns unmatched for every name; the port exists so the record shape stays
// stable once matching is completed.
type PartyMatcher interface {
	// Match returns the matched party, or nil when no match was found.
	Match(ctx context.Context, name string) (*domain.PartyRef, error)
}

// JobSubmitter accepts an ingestion job for asynchronous processing and
// returns its id. Fire-and-forget: the caller never observes the result.
type JobSubmitter interface {
	Submit(ctx context.Context, job jobs.IngestJob) (string, error)
}
