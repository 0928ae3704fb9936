package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateService maintains the rate table and answers the as-of-date
// rate lookups the entry mapper depends on.
type ExchangeRateService struct {
	rateRepo        ports.ExchangeRateRepository
	currencyService *CurrencyService
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo ports.ExchangeRateRepository, currencyService *CurrencyService) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
	}
}

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *ExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorID string) (*domain.ExchangeRate, error) {
	// Input validation (basic format) is handled by DTO binding tags.
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	// Check if currencies exist
	_, errFrom := s.currencyService.GetCurrencyByCode(ctx, req.FromCurrencyCode)
	if errFrom != nil {
		if errors.Is(errFrom, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency code '%s' not found", apperrors.ErrValidation, req.FromCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", req.FromCurrencyCode, errFrom)
	}

	_, errTo := s.currencyService.GetCurrencyByCode(ctx, req.ToCurrencyCode)
	if errTo != nil {
		if errors.Is(errTo, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency code '%s' not found", apperrors.ErrValidation, req.ToCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", req.ToCurrencyCode, errTo)
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	return &rate, nil
}

// GetExchangeRate retrieves the most recent rate for a currency pair.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return rate, nil
}

// Rate implements ports.RateSource: the conversion rate from fromCode to
// toCode effective on or before asOf. Identical codes convert at 1.
func (s *ExchangeRateService) Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Decimal{}, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrLookup)
	}

	rate, err := s.rateRepo.FindExchangeRateAsOf(ctx, fromCode, toCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Decimal{}, fmt.Errorf("%w: no %s->%s rate effective on or before %s", apperrors.ErrLookup, fromCode, toCode, asOf.Format("2006-01-02"))
		}
		return decimal.Decimal{}, fmt.Errorf("%w: %v", apperrors.ErrLookup, err)
	}
	return rate.Rate, nil
}

var _ ports.RateSource = (*ExchangeRateService)(nil)
