package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/adapters/events"
	"github.com/zatekoja/homeflow/internal/adapters/memory"
	"github.com/zatekoja/homeflow/internal/adapters/seed"
	"github.com/zatekoja/homeflow/internal/api/handlers"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/tools"
	"github.com/zatekoja/homeflow/internal/application/widget"
)

var handlerNow = time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)

func newToolMux(t *testing.T) *http.ServeMux {
	t.Helper()

	store := memory.NewStore()
	clock := schedule.NewBusinessClock(schedule.DefaultOffsetMinutes)
	now := func() time.Time { return handlerNow }
	require.NoError(t, seed.Load(context.Background(), seed.Repositories{
		Services: store.Services(),
		Pros:     store.Pros(),
		Bookings: store.Bookings(),
		Reviews:  store.Reviews(),
	}, clock, handlerNow))

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { bus.Close() })

	bookings := services.NewBookingService(store.Bookings(), store.Pros(), store.Services(), store.Quotes(), bus, now)
	registry := tools.NewRegistry(tools.Dependencies{
		Search:    services.NewSearchService(store.Services(), store.Pros(), clock, now),
		Quotes:    services.NewQuoteService(store.Services(), store.Pros(), store.Quotes(), clock, now),
		Bookings:  bookings,
		Reviews:   services.NewReviewService(store.Bookings(), store.Reviews(), store.Pros(), bookings, bus, now),
		Services:  store.Services(),
		Pros:      store.Pros(),
		Assembler: widget.NewAssembler("https://homeflow.test", nil),
		Clock:     clock,
		Now:       now,
	})

	h := handlers.NewToolHandler(registry, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", h.ListTools)
	mux.HandleFunc("POST /api/tools/{name}", h.CallTool)
	mux.HandleFunc("GET /api/resources/homeflow", h.GetHomeResource)
	return mux
}

func serve(mux http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestToolHandler_ListTools(t *testing.T) {
	mux := newToolMux(t)

	rec, body := serve(mux, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list, ok := body["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 14)

	names := make([]string, 0, len(list))
	for _, item := range list {
		names = append(names, item.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "homeflow_home")
	assert.Contains(t, names, "google-account")
}

func TestToolHandler_CallTool(t *testing.T) {
	mux := newToolMux(t)

	tests := []struct {
		name       string
		tool       string
		body       string
		wantStatus int
		wantError  string
		wantView   string
	}{
		{
			name:       "empty body runs the launcher",
			tool:       "homeflow_home",
			wantStatus: http.StatusOK,
			wantView:   "home",
		},
		{
			name:       "search with location",
			tool:       "search_pros",
			body:       `{"service":"plumbing","location":{"lat":3.139,"lng":101.686,"radius_km":10}}`,
			wantStatus: http.StatusOK,
			wantView:   "search",
		},
		{
			name:       "unknown tool",
			tool:       "launch_rocket",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Unknown HomeFlow tool: launch_rocket",
		},
		{
			name:       "malformed body",
			tool:       "search_pros",
			body:       `[1,2`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Arguments must be a JSON object.",
		},
		{
			name:       "missing required argument",
			tool:       "get_slots",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "pro_id is required.",
		},
		{
			name:       "unknown job",
			tool:       "job_status",
			body:       `{"job_id":"999"}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(mux, http.MethodPost, "/api/tools/"+tt.tool, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			if tt.wantView != "" {
				structured, ok := body["structuredContent"].(map[string]any)
				require.True(t, ok)
				widgetData, ok := structured["widgetData"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantView, widgetData["view"])
				assert.Equal(t, "https://homeflow.test", widgetData["context"].(map[string]any)["apiBase"])

				content, ok := body["content"].([]any)
				require.True(t, ok)
				assert.Len(t, content, 2)
			}
		})
	}
}

func TestToolHandler_HomeResource(t *testing.T) {
	mux := newToolMux(t)

	rec, body := serve(mux, http.MethodGet, "/api/resources/homeflow", "")
	require.Equal(t, http.StatusOK, rec.Code)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	resource := contents[0].(map[string]any)
	assert.Equal(t, widget.TemplateURI, resource["uri"])
	assert.Equal(t, widget.ResourceMimeType, resource["mimeType"])
	assert.NotEmpty(t, resource["text"])
}

// MockPinger defines a mock dependency check
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		h := handlers.NewHealthHandler(nil)
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness reports failing dependencies", func(t *testing.T) {
		postgres := new(MockPinger)
		postgres.On("Ping", mock.Anything).Return(nil)
		redis := new(MockPinger)
		redis.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		h := handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": postgres,
			"redis":    redis,
		})
		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Checks["postgres"])
		assert.Equal(t, "connection refused", body.Checks["redis"])
		postgres.AssertExpectations(t)
		redis.AssertExpectations(t)
	})
}
