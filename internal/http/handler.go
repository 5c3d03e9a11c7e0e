package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/i18n"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/guttosm/sash-quote-service/internal/service"
)

// Handler provides HTTP handlers for quoting and unit batch routes.
type Handler struct {
	quotes service.QuoteCalculator
}

// NewHandler creates a new Handler instance.
func NewHandler(quotes service.QuoteCalculator) *Handler {
	return &Handler{quotes: quotes}
}

// Quote handles POST /api/quote requests.
//
// @Summary      Compute a quote
// @Description  Prices every complete unit with the current price table and computes the full breakdown: extras, adjustments, renovation and work-description multipliers, VAT and the ROT deduction. Incomplete units are left unpriced unless strict is set. Supports idempotency via Idempotency-Key header.
// @Tags         Quote
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.QuoteRequest true "Units and job options"
// @Success      200 {object} dto.SuccessResponse{data=service.QuoteResult} "Computed quote"
// @Failure      400 {object} dto.ErrorResponse "Invalid request or validation failed"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     ApiKeyAuth
// @Router       /api/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.QuoteRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	result, err := h.quotes.Quote(c.Request.Context(), service.QuoteRequest{
		Units:         req.Units,
		Options:       req.Options,
		ExpectedUnits: req.ExpectedUnits,
		Strict:        req.Strict,
		Offer:         req.IncludeOffer,
		Customer:      req.Customer,
	})
	if err != nil {
		h.fail(builder, err)
		return
	}

	builder.SuccessOK(result)
}

// PriceUnit handles POST /api/units/price requests.
//
// @Summary      Price a single unit
// @Description  Returns the unit with its price set. Incomplete units are rejected with the missing fields.
// @Tags         Units
// @Accept       json
// @Produce      json
// @Param        request body dto.PriceUnitRequest true "Unit to price"
// @Success      200 {object} dto.SuccessResponse{data=model.Unit} "Priced unit"
// @Failure      400 {object} dto.ErrorResponse "Invalid request or incomplete unit"
// @Security     ApiKeyAuth
// @Router       /api/units/price [post]
func (h *Handler) PriceUnit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.PriceUnitRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	unit, err := h.quotes.PriceUnit(c.Request.Context(), req.Unit)
	if err != nil {
		h.fail(builder, err)
		return
	}
	builder.SuccessOK(unit)
}

// ValidateUnits handles POST /api/units/validate requests.
//
// @Summary      Validate a unit batch
// @Description  Reports every missing field per unit and a count mismatch against expected_units. The check itself always answers 200.
// @Tags         Units
// @Accept       json
// @Produce      json
// @Param        request body dto.ValidateUnitsRequest true "Units to validate"
// @Success      200 {object} dto.SuccessResponse{data=dto.UnitsValidationResponse} "Validation outcome"
// @Failure      400 {object} dto.ErrorResponse "Invalid request"
// @Security     ApiKeyAuth
// @Router       /api/units/validate [post]
func (h *Handler) ValidateUnits(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ValidateUnitsRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	err = h.quotes.ValidateUnits(req.Units, req.ExpectedUnits)
	var verrs *pricing.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		h.fail(builder, err)
		return
	}
	builder.SuccessOK(dto.NewUnitsValidationResponse(verrs))
}

// UnitBatch handles POST /api/units/batch requests.
//
// @Summary      Create or resize a unit batch
// @Description  Returns the units unchanged when count matches, otherwise a fresh batch of empty units numbered 1..count.
// @Tags         Units
// @Accept       json
// @Produce      json
// @Param        request body dto.UnitBatchRequest true "Current units and wanted count"
// @Success      200 {object} dto.SuccessResponse{data=dto.UnitsResponse} "Unit batch"
// @Failure      400 {object} dto.ErrorResponse "Invalid count"
// @Security     ApiKeyAuth
// @Router       /api/units/batch [post]
func (h *Handler) UnitBatch(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.UnitBatchRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	units, err := h.quotes.ResizeBatch(req.Units, req.Count)
	if err != nil {
		h.fail(builder, err)
		return
	}
	builder.SuccessOK(dto.UnitsResponse{Units: units})
}

// DuplicateUnit handles POST /api/units/duplicate requests.
//
// @Summary      Copy the previous unit
// @Description  Copies the attributes of the unit before unit_id into unit_id and prices it when complete.
// @Tags         Units
// @Accept       json
// @Produce      json
// @Param        request body dto.DuplicateUnitRequest true "Units and target unit id"
// @Success      200 {object} dto.SuccessResponse{data=dto.UnitsResponse} "Updated batch"
// @Failure      400 {object} dto.ErrorResponse "Invalid request"
// @Failure      404 {object} dto.ErrorResponse "Unit not in batch"
// @Security     ApiKeyAuth
// @Router       /api/units/duplicate [post]
func (h *Handler) DuplicateUnit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.DuplicateUnitRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	units, err := h.quotes.DuplicatePrevious(c.Request.Context(), req.Units, req.UnitID)
	if err != nil {
		h.fail(builder, err)
		return
	}
	builder.SuccessOK(dto.UnitsResponse{Units: units})
}

// fail maps pricing and service errors to responses.
func (h *Handler) fail(builder *ResponseBuilder, err error) {
	var verrs *pricing.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		builder.Invalid(err)
	case errors.Is(err, pricing.ErrUnitNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyUnitNotFound, err)
	case errors.Is(err, pricing.ErrBatchSize), errors.Is(err, pricing.ErrNoPreviousUnit):
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}
