package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements ports.ExchangeRateRepository using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ ports.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts or updates an exchange rate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	fromCurrency := strings.ToUpper(rate.FromCurrencyCode)
	toCurrency := strings.ToUpper(rate.ToCurrencyCode)

	if fromCurrency == toCurrency {
		return fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	// Check if a rate already exists for this currency pair and date
	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT exchange_rate_id FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective = $3`,
		fromCurrency, toCurrency, rate.DateEffective,
	).Scan(&existingID)

	// If we found an existing rate, update it
	if err == nil && existingID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE exchange_rates
			SET rate = $1, last_updated_at = $2, last_updated_by = $3
			WHERE exchange_rate_id = $4`,
			rate.Rate, rate.LastUpdatedAt, rate.LastUpdatedBy, existingID,
		)
	} else if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
			INSERT INTO exchange_rates (
				exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rate.ExchangeRateID, fromCurrency, toCurrency,
			rate.Rate, rate.DateEffective, rate.CreatedAt,
			rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
		)
	}

	if err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindExchangeRate retrieves the most recent exchange rate between two currencies.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	return r.findRate(ctx, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), nil)
}

// FindExchangeRateAsOf retrieves the rate effective on or before asOf.
func (r *PgxExchangeRateRepository) FindExchangeRateAsOf(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	return r.findRate(ctx, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), &asOf)
}

// findRate finds the most recent exchange rate, optionally bounded by an
// as-of date.
func (r *PgxExchangeRateRepository) findRate(ctx context.Context, fromCurrency, toCurrency string, asOf *time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT
			exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
	`
	args := []any{fromCurrency, toCurrency}
	if asOf != nil {
		query += ` AND date_effective <= $3`
		args = append(args, *asOf)
	}
	query += `
		ORDER BY date_effective DESC
		LIMIT 1;
	`

	var rate domain.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&rate.ExchangeRateID, &rate.FromCurrencyCode, &rate.ToCurrencyCode,
		&rate.Rate, &rate.DateEffective, &rate.CreatedAt,
		&rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no exchange rate for %s to %s", apperrors.ErrNotFound, fromCurrency, toCurrency)
		}
		return nil, fmt.Errorf("failed to find exchange rate: %w", err)
	}

	return &rate, nil
}
