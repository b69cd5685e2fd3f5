package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pricelens/internal/loader"
	"github.com/rshade/pricelens/internal/logging"
	"github.com/rshade/pricelens/internal/server"
)

const sampleCSV = `Model,Input,Output
gpt-4,$30.00,$60.00
gpt-4o-mini,$0.15,$0.60
claude-sonnet,$3.00,$15.00
`

type stubSource struct {
	text string
	err  error
}

func (s stubSource) Load(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func newServer(t *testing.T, src server.PriceSource, rateLimit int) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := logging.NewWriterLogger(&logs, logging.Config{Level: "debug", Format: logging.FormatJSON})
	srv := server.New(server.Config{
		Addr:      "127.0.0.1:0",
		DataPath:  "/data/model_prices.csv",
		RateLimit: rateLimit,
		RateBurst: rateLimit,
	}, src, logger)
	return srv.Handler(), &logs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type pricesBody struct {
	Mode   string   `json:"mode"`
	Series []string `json:"series"`
	Points []struct {
		Name   string   `json:"name"`
		Input  *float64 `json:"Input"`
		Output *float64 `json:"Output"`
	} `json:"points"`
}

func decodePrices(t *testing.T, rec *httptest.ResponseRecorder) pricesBody {
	t.Helper()
	var body pricesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func pointNames(body pricesBody) []string {
	names := make([]string, 0, len(body.Points))
	for _, p := range body.Points {
		names = append(names, p.Name)
	}
	return names
}

func TestHealthz(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCSVRoute(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	rec := get(t, h, "/data/model_prices.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sampleCSV, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
}

func TestCSVRoute_FetchErrorKeepsStatus(t *testing.T) {
	src := stubSource{err: &loader.FetchError{Path: "data/model_prices.csv", Status: 404, StatusText: "Not Found"}}
	h, _ := newServer(t, src, 0)
	rec := get(t, h, "/data/model_prices.csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load CSV file")
}

func TestPrices_OtherErrorIsBadGateway(t *testing.T) {
	h, _ := newServer(t, stubSource{err: errors.New("dial tcp: refused")}, 0)
	rec := get(t, h, "/api/prices")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPrices_Defaults(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	rec := get(t, h, "/api/prices")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodePrices(t, rec)
	assert.Equal(t, "both", body.Mode)
	assert.Equal(t, []string{"gpt-4", "gpt-4o-mini", "claude-sonnet"}, pointNames(body))
	require.NotNil(t, body.Points[0].Input)
	assert.InDelta(t, 30.0, *body.Points[0].Input, 1e-9)
	require.NotNil(t, body.Points[0].Output)
	assert.InDelta(t, 60.0, *body.Points[0].Output, 1e-9)
}

func TestPrices_TierAndMode(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)

	tests := []struct {
		query string
		names []string
	}{
		{"tier=low", []string{"gpt-4o-mini"}},
		{"tier=mid", []string{"claude-sonnet"}},
		{"tier=high", []string{"gpt-4"}},
		{"tier=all", []string{"gpt-4", "gpt-4o-mini", "claude-sonnet"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/api/prices?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.names, pointNames(decodePrices(t, rec)))
		})
	}

	rec := get(t, h, "/api/prices?mode=input")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodePrices(t, rec)
	assert.Equal(t, "input", body.Mode)
	for _, p := range body.Points {
		assert.NotNil(t, p.Input)
		assert.Nil(t, p.Output)
	}
}

func TestPrices_ExplicitModels(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	rec := get(t, h, "/api/prices?model=claude-sonnet&model=gpt-4&model=claude-sonnet")
	require.Equal(t, http.StatusOK, rec.Code)
	// Source order, not query order.
	assert.Equal(t, []string{"gpt-4", "claude-sonnet"}, pointNames(decodePrices(t, rec)))
}

func TestPrices_BadParams(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	for _, q := range []string{"tier=cheap", "mode=sideways"} {
		rec := get(t, h, "/api/prices?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "error")
	}
}

func TestPrices_QuotedCSVIsUnprocessable(t *testing.T) {
	h, _ := newServer(t, stubSource{text: "Model,Input,Output\n\"a,b\",$1,$2\n"}, 0)
	rec := get(t, h, "/api/prices")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTraceIDAndAccessLog(t *testing.T) {
	h, logs := newServer(t, stubSource{text: sampleCSV}, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(server.HeaderTraceID, "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(server.HeaderTraceID))
	assert.Contains(t, logs.String(), `"trace_id":"trace-123"`)
	assert.Contains(t, logs.String(), `"path":"/healthz"`)
	assert.Contains(t, logs.String(), `"component":"server"`)

	rec = get(t, h, "/healthz")
	assert.NotEmpty(t, rec.Header().Get(server.HeaderTraceID))
}

func TestRateLimit(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 2)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/healthz").Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := server.NewRateLimiter(1, 1)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := server.New(server.Config{Addr: "127.0.0.1:0", DataPath: "/data/model_prices.csv"},
		stubSource{text: sampleCSV}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoaderFetchesFromServer(t *testing.T) {
	h, _ := newServer(t, stubSource{text: sampleCSV}, 0)
	ts := httptest.NewServer(h)
	defer ts.Close()

	text, err := loader.New(loader.WithBaseURL(ts.URL)).Load(context.Background(), "/data/model_prices.csv")
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, text)

	_, err = loader.New(loader.WithBaseURL(ts.URL)).Load(context.Background(), "/data/other.csv")
	var fetchErr *loader.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}
