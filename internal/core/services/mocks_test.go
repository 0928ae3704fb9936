package services_test

import (
	"context"
	"time"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock FileStore ---
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) List(ctx context.Context, folderID string) ([]domain.FileRef, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileRef), args.Error(1)
}

func (m *MockFileStore) LoadBytes(ctx context.Context, fileID string) ([]byte, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStore) Move(ctx context.Context, fileID, folderID string) error {
	args := m.Called(ctx, fileID, folderID)
	return args.Error(0)
}

func (m *MockFileStore) Save(ctx context.Context, folderID, name string, data []byte) (domain.FileRef, error) {
	args := m.Called(ctx, folderID, name, data)
	return args.Get(0).(domain.FileRef), args.Error(1)
}

// --- Mock LedgerRecordStore ---
type MockLedgerRecordStore struct {
	mock.Mock
}

func (m *MockLedgerRecordStore) CreateRecord(ctx context.Context, entry domain.PaymentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock PartyMatcher ---
type MockPartyMatcher struct {
	mock.Mock
}

func (m *MockPartyMatcher) Match(ctx context.Context, name string) (*domain.PartyRef, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyRef), args.Error(1)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindExchangeRateAsOf(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
