package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rshade/pricelens/internal/chart"
	"github.com/rshade/pricelens/internal/loader"
	"github.com/rshade/pricelens/internal/pricing"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleCSV serves the raw pricing file.
func (s *Server) handleCSV(c echo.Context) error {
	text, err := s.source.Load(c.Request().Context(), s.cfg.DataPath)
	if err != nil {
		return s.loadError(c, err)
	}
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(text))
}

// handlePrices returns the chart dataset. Query parameters:
//
//	tier   all|low|mid|high (default all)
//	mode   both|input|output (default both)
//	model  repeatable; when present, the selection is exactly these names
//	       and tier is ignored
func (s *Server) handlePrices(c echo.Context) error {
	tier, err := pricing.ParseTier(c.QueryParam("tier"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	mode, err := pricing.ParseDisplayMode(c.QueryParam("mode"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	text, err := s.source.Load(ctx, s.cfg.DataPath)
	if err != nil {
		return s.loadError(c, err)
	}
	records, err := pricing.ParseCSV(text)
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("error parsing CSV data")
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	state := pricing.Reduce(pricing.NewState(), pricing.Loaded{Records: records})
	state = pricing.Reduce(state, pricing.SetTier{Tier: tier})
	if models := c.QueryParams()["model"]; len(models) > 0 {
		state = pricing.Reduce(state, pricing.DeselectAll{})
		for _, name := range models {
			if !state.Selection.Has(name) {
				state = pricing.Reduce(state, pricing.Toggle{Name: name})
			}
		}
	}
	state = pricing.Reduce(state, pricing.SetDisplayMode{Mode: mode})

	return c.JSON(http.StatusOK, chart.ToJSON(chart.FromState(state)))
}

// loadError maps a load failure onto an HTTP reply. A FetchError keeps its
// status; anything else is a bad gateway.
func (s *Server) loadError(c echo.Context, err error) error {
	status := http.StatusBadGateway
	var fetchErr *loader.FetchError
	if errors.As(err, &fetchErr) {
		status = fetchErr.Status
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
