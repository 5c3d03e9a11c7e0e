// Package i18n translates user-facing error and status messages (English and Swedish).
package i18n

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	supportedLocales = []string{DefaultLocale, "sv"}
	matcher          = language.NewMatcher([]language.Tag{language.English, language.Swedish})

	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale picks the best supported locale from the Accept-Language header.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[idx]
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request_body":       "Invalid request body",
			"error.internal_error":             "An unexpected error occurred",
			"error.invalid_credentials":        "Wrong password",
			"error.api_key_required":           "API key is required",
			"error.invalid_api_key":            "Invalid API key",
			"error.not_found":                  "Not found",
			"error.rate_limit_exceeded":        "Too many requests, please try again later",
			"error.invalid_token":              "Invalid or expired token",
			"error.token_required":             "Authentication token is required",
			"error.timeout":                    "The request timed out",
			"error.validation_failed":          "Some fields are missing or invalid",
			"error.unit_not_found":             "Unit not found",
			"error.price_table_unavailable":    "Could not load current prices from the price sheet",
			"error.price_sheet_not_configured": "No price sheet is configured",
			"error.price_table_save_failed":    "Could not save prices to the price sheet",
			"error.database_unavailable":       "Database is not available",
		},
		"sv": {
			"error.invalid_request_body":       "Ogiltig begäran",
			"error.internal_error":             "Ett oväntat fel uppstod",
			"error.invalid_credentials":        "Fel lösenord",
			"error.api_key_required":           "API-nyckel krävs",
			"error.invalid_api_key":            "Ogiltig API-nyckel",
			"error.not_found":                  "Hittades inte",
			"error.rate_limit_exceeded":        "För många förfrågningar, försök igen senare",
			"error.invalid_token":              "Ogiltig eller utgången token",
			"error.token_required":             "Inloggning krävs",
			"error.timeout":                    "Förfrågan tog för lång tid",
			"error.validation_failed":          "Vissa fält saknas eller är ogiltiga",
			"error.unit_not_found":             "Partiet hittades inte",
			"error.price_table_unavailable":    "Kunde inte hämta aktuella priser från prislistan",
			"error.price_sheet_not_configured": "Ingen prislista är konfigurerad",
			"error.price_table_save_failed":    "Kunde inte spara priserna i prislistan",
			"error.database_unavailable":       "Databasen är inte tillgänglig",
		},
	}
}
