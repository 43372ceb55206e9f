package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

type cronHandler struct {
	nightly NightlyService
	logger  *logger.Logger
	now     func() time.Time
}

type runResponse struct {
	Status model.RunStatus `json:"status"`
	model.RunReport
}

// runNightly starts a run and waits for it. The run outlives a dropped client
// connection.
func (h *cronHandler) runNightly(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())

	report, err := h.nightly.Run(ctx, h.now())
	if err != nil {
		h.logger.Error("HTTP cron: nightly run failed", "run_id", report.RunID, "error", err)
		return c.JSON(http.StatusInternalServerError, report)
	}

	return c.JSON(http.StatusOK, report)
}

func (h *cronHandler) getRun(c echo.Context) error {
	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	report, status, err := h.nightly.Report(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no run recorded for "+c.Param("date"))
		}
		h.logger.Error("HTTP cron: failed to load run", "date", c.Param("date"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	return c.JSON(http.StatusOK, runResponse{Status: status, RunReport: report})
}
