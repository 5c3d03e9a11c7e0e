package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/stretchr/testify/require"
)

const quoteBody = `{"units":[{"id":1,"kind":"fonster","sash_count":"2_luftare","work_scope":"utvandig","opening":"inatgaende","window_type":"kopplade_standard"}]}`

func baseConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			LoginRateLimit: 10,
			RequestTimeout: 5 * time.Second,
		},
		Pricing: config.PricingConfig{
			FetchTimeout:   time.Second,
			SnapshotTTL:    10 * time.Minute,
			QuoteCacheSize: 100,
			QuoteCacheTTL:  time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecretKey:   "test-secret",
			AccessTokenTTL: time.Minute,
		},
		Log: config.LogConfig{Level: "error"},
	}
}

// sheetServer answers price sheet reads with a single row.
func sheetServer(t *testing.T, version int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":        true,
			"data":      map[string]interface{}{"luftare_1_pris": 5000, "version": version},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serve(a *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func priceTableOf(t *testing.T, w *httptest.ResponseRecorder) model.PriceTable {
	t.Helper()
	var resp struct {
		Data model.PriceTable `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}
