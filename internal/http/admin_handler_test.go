package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/mocks"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/guttosm/sash-quote-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminToken = "admin-session-token"

type adminFixture struct {
	router *gin.Engine
	admin  *mocks.MockPriceAdminService
	auth   *mocks.MockAdminAuthService
}

func setupAdminRouter(t *testing.T, logs service.LoggingService) *adminFixture {
	t.Helper()
	f := &adminFixture{
		admin: mocks.NewMockPriceAdminService(t),
		auth:  mocks.NewMockAdminAuthService(t),
	}
	f.auth.On("ValidateToken", mock.Anything, adminToken).
		Return(&dto.Claims{Subject: "admin", Role: "price_admin"}, nil).Maybe()
	f.auth.On("ValidateToken", mock.Anything, mock.Anything).
		Return(nil, service.ErrInvalidToken).Maybe()

	f.router = newTestRouter(t, func(cfg *RouterConfig) {
		cfg.AdminAuthService = f.auth
		cfg.PriceAdminService = f.admin
		cfg.LoggingService = logs
	})
	return f
}

func (f *adminFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminHandler_RequiresToken(t *testing.T) {
	f := setupAdminRouter(t, nil)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "unknown token", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/price-table", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Error)
		})
	}
}

func TestAdminHandler_FetchPriceTable(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockPriceAdminService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "returns the fresh table",
			setupMocks: func(m *mocks.MockPriceAdminService) {
				table := pricing.DefaultPriceTable()
				table.Source = model.SourceRemote
				table.Version = 7
				m.On("FetchForEdit", mock.Anything).Return(&service.EditablePriceTable{
					Table:    table,
					Row:      pricing.DefaultPriceRow(),
					Percents: pricing.MultiplierPercents(table),
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "sheet unreachable",
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("FetchForEdit", mock.Anything).
					Return(nil, fmt.Errorf("%w: %w", service.ErrFreshPriceTableUnavailable, pricesheet.ErrUpstream)).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeUpstream,
		},
		{
			name: "sheet not configured",
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("FetchForEdit", mock.Anything).Return(nil, pricesheet.ErrNotConfigured).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAdminRouter(t, nil)
			tt.setupMocks(f.admin)

			w := f.do(http.MethodGet, "/api/admin/price-table", "")

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
				return
			}
			var editable service.EditablePriceTable
			decodeData(t, w, &editable)
			assert.Equal(t, 7, editable.Table.Version)
			assert.NotEmpty(t, editable.Percents)
		})
	}
}

func TestAdminHandler_SavePriceTable(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockPriceAdminService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "saves with the token subject",
			body: `{"row":{"luftare_1_pris":1200},"multipliers_as_percent":true}`,
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(req service.PriceSaveRequest) bool {
					return req.Subject == "admin" && req.MultipliersAsPercent && len(req.Row) == 1
				})).Return(&service.PriceSaveResult{Version: 8, Reloaded: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty row",
			body:           `{"row":{}}`,
			setupMocks:     func(m *mocks.MockPriceAdminService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "missing row",
			body:           `{}`,
			setupMocks:     func(m *mocks.MockPriceAdminService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidRequest,
		},
		{
			name: "invalid field values",
			body: `{"row":{"moms":"abc"}}`,
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("Save", mock.Anything, mock.Anything).Return(nil, &pricing.ValidationErrors{
					Errors: []pricing.FieldError{{Field: "moms", Message: "must be a number"}},
				}).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name: "sheet rejects the row",
			body: `{"row":{"luftare_1_pris":1200}}`,
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("Save", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: locked", pricesheet.ErrRejected)).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeUpstream,
		},
		{
			name: "sheet circuit open",
			body: `{"row":{"luftare_1_pris":1200}}`,
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("Save", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: %w", pricesheet.ErrUpstream, circuitbreaker.ErrCircuitOpen)).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeUpstream,
		},
		{
			name: "save timed out",
			body: `{"row":{"luftare_1_pris":1200}}`,
			setupMocks: func(m *mocks.MockPriceAdminService) {
				m.On("Save", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   dto.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAdminRouter(t, nil)
			tt.setupMocks(f.admin)

			w := f.do(http.MethodPut, "/api/admin/price-table", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
				return
			}
			var result service.PriceSaveResult
			decodeData(t, w, &result)
			assert.Equal(t, 8, result.Version)
			assert.True(t, result.Reloaded)
		})
	}
}

func TestAdminHandler_SavePriceTable_Audited(t *testing.T) {
	logs := mocks.NewMockLoggingService(t)
	saved := make(chan *model.LogEntry, 1)
	logs.On("CreateLog", mock.Anything, mock.MatchedBy(func(e *model.LogEntry) bool {
		return e.ActionType == "price_table_save"
	})).Run(func(args mock.Arguments) {
		saved <- args.Get(1).(*model.LogEntry)
	}).Return(nil).Once()
	logs.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	f := setupAdminRouter(t, logs)
	f.admin.On("Save", mock.Anything, mock.Anything).
		Return(&service.PriceSaveResult{Version: 3, Reloaded: true}, nil).Once()

	w := f.do(http.MethodPut, "/api/admin/price-table", `{"row":{"luftare_1_pris":1200}}`)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case entry := <-saved:
		assert.Equal(t, "admin", entry.Subject)
		assert.Equal(t, "info", entry.Level)
		assert.Equal(t, 3, entry.Fields["version"])
	case <-time.After(2 * time.Second):
		t.Fatal("save was not audited")
	}
}

func TestAdminHandler_History(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantLimit      int
		result         []model.PriceSnapshot
		err            error
		expectedStatus int
	}{
		{name: "default limit", wantLimit: 20, result: []model.PriceSnapshot{{Version: 2}, {Version: 1}}, expectedStatus: http.StatusOK},
		{name: "capped limit", query: "?limit=1000", wantLimit: 100, expectedStatus: http.StatusOK},
		{name: "invalid limit falls back", query: "?limit=abc", wantLimit: 20, expectedStatus: http.StatusOK},
		{name: "no database", wantLimit: 20, err: service.ErrRepositoryNotConfigured, expectedStatus: http.StatusServiceUnavailable},
		{name: "database circuit open", wantLimit: 20, err: circuitbreaker.ErrCircuitOpen, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAdminRouter(t, nil)
			f.admin.On("History", mock.Anything, tt.wantLimit).Return(tt.result, tt.err).Once()

			w := f.do(http.MethodGet, "/api/admin/price-table/history"+tt.query, "")

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.err == nil {
				var snapshots []model.PriceSnapshot
				decodeData(t, w, &snapshots)
				assert.Len(t, snapshots, len(tt.result))
			}
		})
	}
}

func TestAdminHandler_AuditLogs(t *testing.T) {
	since := "2026-01-02T03:04:05Z"
	sinceTime, _ := time.Parse(time.RFC3339, since)

	tests := []struct {
		name           string
		query          string
		setupMocks     func(*mocks.MockLoggingService)
		expectedStatus int
		check          func(*testing.T, model.LogPage)
	}{
		{
			name:  "filters and pages",
			query: "?action_type=price_table_save&subject=admin&since=" + since + "&limit=10&skip=5",
			setupMocks: func(m *mocks.MockLoggingService) {
				match := mock.MatchedBy(func(o model.LogQueryOptions) bool {
					return o.ActionType == "price_table_save" && o.Subject == "admin" &&
						o.Limit == 10 && o.Skip == 5 && o.StartTime != nil && o.StartTime.Equal(sinceTime)
				})
				m.On("AuditTrail", mock.Anything, match).Return(&model.LogPage{
					Entries: []model.LogEntry{{Message: "Price table saved", ActionType: "price_table_save"}},
					Total:   6,
					Limit:   10,
					Skip:    5,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, page model.LogPage) {
				assert.Len(t, page.Entries, 1)
				assert.Equal(t, int64(6), page.Total)
				assert.Equal(t, 10, page.Limit)
				assert.Equal(t, 5, page.Skip)
			},
		},
		{
			name:  "limit above the cap is clamped",
			query: "?limit=10000",
			setupMocks: func(m *mocks.MockLoggingService) {
				match := mock.MatchedBy(func(o model.LogQueryOptions) bool {
					return o.Limit == service.MaxAuditPageSize
				})
				m.On("AuditTrail", mock.Anything, match).
					Return(&model.LogPage{Entries: []model.LogEntry{}, Limit: service.MaxAuditPageSize}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, page model.LogPage) {
				assert.NotNil(t, page.Entries)
				assert.Equal(t, service.MaxAuditPageSize, page.Limit)
			},
		},
		{
			name:           "bad since",
			query:          "?since=yesterday",
			setupMocks:     func(m *mocks.MockLoggingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "query failure",
			setupMocks: func(m *mocks.MockLoggingService) {
				m.On("AuditTrail", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := mocks.NewMockLoggingService(t)
			logs.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()
			tt.setupMocks(logs)
			f := setupAdminRouter(t, logs)

			w := f.do(http.MethodGet, "/api/admin/audit-logs"+tt.query, "")

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.check != nil {
				var page model.LogPage
				decodeData(t, w, &page)
				tt.check(t, page)
			}
		})
	}
}

func TestAdminHandler_AuditLogs_NoDatabase(t *testing.T) {
	f := setupAdminRouter(t, nil)

	w := f.do(http.MethodGet, "/api/admin/audit-logs", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeUnavailable, decodeError(t, w).Error)
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		max   int
		want  int
	}{
		{query: "", max: 100, want: 20},
		{query: "n=5", max: 100, want: 5},
		{query: "n=500", max: 100, want: 100},
		{query: "n=-3", max: 100, want: 20},
		{query: "n=999999", max: -1, want: 999999},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, queryInt(c, "n", 20, tt.max))
		})
	}
}
