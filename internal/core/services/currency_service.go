package services

import (
	"context"
	"fmt"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
)

type CurrencyService struct {
	currencyRepo ports.CurrencyRepository
}

func NewCurrencyService(currencyRepo ports.CurrencyRepository) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
