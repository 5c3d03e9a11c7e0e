package dto

import (
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/pricing"
)

// UnitsResponse carries a unit batch.
type UnitsResponse struct {
	Units []model.Unit `json:"units"`
} // @name UnitsResponse

// UnitsValidationResponse reports whether a batch is ready to be quoted.
type UnitsValidationResponse struct {
	Valid bool `json:"valid"`
	// Errors lists every missing or invalid field, by unit.
	Errors []pricing.FieldError `json:"errors"`
	// Details is Errors keyed by field path, as in error responses.
	Details map[string]string `json:"details,omitempty"`
} // @name UnitsValidationResponse

// NewUnitsValidationResponse builds the response for a validation outcome.
// A nil verrs means the batch is valid.
func NewUnitsValidationResponse(verrs *pricing.ValidationErrors) UnitsValidationResponse {
	if verrs == nil || len(verrs.Errors) == 0 {
		return UnitsValidationResponse{Valid: true, Errors: []pricing.FieldError{}}
	}
	return UnitsValidationResponse{
		Valid:   false,
		Errors:  verrs.Errors,
		Details: DetailsFromValidation(verrs),
	}
}
