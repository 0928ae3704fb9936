// Package partymatch holds counterparty matching implementations.
package partymatch

import (
	"context"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
)

// NoopMatcher reports every name as unmatched. Name-based vendor matching
// against the ledger is planned but not functional; the port keeps the
// record shape stable until it lands.
type NoopMatcher struct{}

// NewNoopMatcher creates a NoopMatcher.
func NewNoopMatcher() *NoopMatcher {
	return &NoopMatcher{}
}

var _ ports.PartyMatcher = (*NoopMatcher)(nil)

// Match always returns unmatched.
func (m *NoopMatcher) Match(ctx context.Context, name string) (*domain.PartyRef, error) {
	return nil, nil
}
