package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	// ErrKeyInvalidCredentials indicates a wrong admin password.
	ErrKeyInvalidCredentials = "error.invalid_credentials"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyTimeout            = "error.timeout"
	// ErrKeyValidationFailed indicates one or more unit or job fields are invalid.
	ErrKeyValidationFailed = "error.validation_failed"
	// ErrKeyUnitNotFound indicates a unit id that is not in the batch.
	ErrKeyUnitNotFound = "error.unit_not_found"
	// ErrKeyPriceTableUnavailable indicates the admin fresh load could not reach the price sheet.
	ErrKeyPriceTableUnavailable = "error.price_table_unavailable"
	// ErrKeyPriceSheetNotConfigured indicates no price sheet URL is configured.
	ErrKeyPriceSheetNotConfigured = "error.price_sheet_not_configured"
	ErrKeyPriceTableSaveFailed    = "error.price_table_save_failed"
	ErrKeyDatabaseUnavailable     = "error.database_unavailable"
)
