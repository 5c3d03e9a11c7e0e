// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strconv"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/offer"
	"github.com/guttosm/sash-quote-service/internal/pricing"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var errTooManyUnits = &ValidationError{
	Field:   "units",
	Message: "must contain at most " + strconv.Itoa(pricing.MaxUnits) + " units",
}

var errNegativeExpected = &ValidationError{
	Field:   "expected_units",
	Message: "must not be negative",
}

// QuoteRequest is the JSON body of the quote endpoint.
//
// Incomplete units are left unpriced unless Strict is set, in which case the
// whole quote is rejected with per-unit details.
//
// @Description Units and job options to compute a quote for
type QuoteRequest struct {
	Units   []model.Unit     `json:"units"`
	Options model.JobOptions `json:"options"`
	// ExpectedUnits is the declared number of units. 0 skips the count check.
	ExpectedUnits int  `json:"expected_units" example:"0"`
	Strict        bool `json:"strict"`
	// IncludeOffer renders the customer-facing offer text.
	IncludeOffer bool           `json:"include_offer"`
	Customer     offer.Customer `json:"customer"`
} // @name QuoteRequest

// Validate checks the request shape. Field completeness is checked by the pricing core.
func (r *QuoteRequest) Validate() error {
	if len(r.Units) > pricing.MaxUnits {
		return errTooManyUnits
	}
	if r.ExpectedUnits < 0 {
		return errNegativeExpected
	}
	return nil
}

// PriceUnitRequest is the JSON body of the single-unit pricing endpoint.
type PriceUnitRequest struct {
	Unit model.Unit `json:"unit"`
} // @name PriceUnitRequest

// ValidateUnitsRequest is the JSON body of the batch validation endpoint.
type ValidateUnitsRequest struct {
	Units         []model.Unit `json:"units"`
	ExpectedUnits int          `json:"expected_units" example:"3"`
} // @name ValidateUnitsRequest

// Validate checks the request shape.
func (r *ValidateUnitsRequest) Validate() error {
	if len(r.Units) > pricing.MaxUnits {
		return errTooManyUnits
	}
	if r.ExpectedUnits < 0 {
		return errNegativeExpected
	}
	return nil
}

// UnitBatchRequest creates or resizes a batch of units.
// Existing units are discarded when Count differs from their number.
type UnitBatchRequest struct {
	Units []model.Unit `json:"units"`
	Count int          `json:"count" binding:"required" example:"3"`
} // @name UnitBatchRequest

// Validate checks the requested batch size.
func (r *UnitBatchRequest) Validate() error {
	if r.Count < 1 || r.Count > pricing.MaxUnits {
		return &ValidationError{
			Field:   "count",
			Message: "must be between 1 and " + strconv.Itoa(pricing.MaxUnits),
		}
	}
	return nil
}

// DuplicateUnitRequest copies the attributes of unit UnitID-1 into unit UnitID.
type DuplicateUnitRequest struct {
	Units  []model.Unit `json:"units" binding:"required"`
	UnitID int          `json:"unit_id" binding:"required" example:"2"`
} // @name DuplicateUnitRequest

// Validate checks the request shape.
func (r *DuplicateUnitRequest) Validate() error {
	if len(r.Units) > pricing.MaxUnits {
		return errTooManyUnits
	}
	if r.UnitID < 2 {
		return &ValidationError{Field: "unit_id", Message: "must have a previous unit"}
	}
	return nil
}

// SavePriceTableRequest is the body of the admin price-table save.
//
// @Description Raw price-list row to store in the remote sheet
type SavePriceTableRequest struct {
	// Row maps price-list field names to values. Unknown fields are rejected.
	Row model.RawPriceRow `json:"row" binding:"required" swaggertype:"object"`
	// MultipliersAsPercent means multiplier fields hold percent adjustments (e.g. 15 for x1.15).
	MultipliersAsPercent bool `json:"multipliers_as_percent"`
} // @name SavePriceTableRequest

// Validate checks the request shape. Field values are validated by the service.
func (r *SavePriceTableRequest) Validate() error {
	if len(r.Row) == 0 {
		return &ValidationError{Field: "row", Message: "must not be empty"}
	}
	return nil
}
