package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/atworth/bankfeed/internal/dto"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateOperatorID marks exchange rates maintained through the management API.
const rateOperatorID = "operator"

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService *services.ExchangeRateService
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService *services.ExchangeRateService) {
	h := &exchangeRateHandler{exchangeRateService: exchangeRateService}

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.Any("rate", req.Rate),
		slog.Time("date_effective", req.DateEffective),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, rateOperatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create exchange rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error getting exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Exchange rate not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		} else {
			logger.Error("Failed to get exchange rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
