package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/atworth/bankfeed/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo     *MockExchangeRateRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          *services.ExchangeRateService
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	currencySvc := services.NewCurrencyService(suite.mockCurrencyRepo)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, currencySvc)
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.92"),
		DateEffective:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "EUR" &&
			r.Rate.Equal(req.Rate) && r.CreatedBy == "operator"
	})).Return(nil).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, req, "operator")

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.Equal("USD", rate.FromCurrencyCode)
	suite.Equal("EUR", rate.ToCurrencyCode)
	suite.NotEmpty(rate.ExchangeRateID)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_NonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.Zero,
		DateEffective:    time.Now(),
	}

	rate, err := suite.service.CreateExchangeRate(ctx, req, "operator")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_SameCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromInt(1),
		DateEffective:    time.Now(),
	}

	rate, err := suite.service.CreateExchangeRate(ctx, req, "operator")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "ZZZ",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromInt(2),
		DateEffective:    time.Now(),
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, req, "operator")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_Success() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		ExchangeRateID:   "rate-1",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.92"),
	}
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(stored, nil).Once()

	rate, err := suite.service.GetExchangeRate(ctx, "usd", "eur")

	suite.Require().NoError(err)
	suite.Equal(stored, rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRate_IdentityPair() {
	ctx := context.Background()

	rate, err := suite.service.Rate(ctx, "EUR", "EUR", time.Now())

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRateAsOf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestRate_AsOfLookup() {
	ctx := context.Background()
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.92"),
		DateEffective:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.mockRateRepo.On("FindExchangeRateAsOf", ctx, "USD", "EUR", asOf).Return(stored, nil).Once()

	rate, err := suite.service.Rate(ctx, "USD", "EUR", asOf)

	suite.Require().NoError(err)
	suite.True(rate.Equal(stored.Rate))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRate_MissingRateIsLookupError() {
	ctx := context.Background()
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.mockRateRepo.On("FindExchangeRateAsOf", ctx, "GBP", "EUR", asOf).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Rate(ctx, "GBP", "EUR", asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLookup)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
