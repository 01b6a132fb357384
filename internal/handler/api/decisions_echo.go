package api

import (
	"time"

	models "PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
	"PillarSight/internal/usecase"
	xhttp "PillarSight/pkg/http"
	xlogger "PillarSight/pkg/logger"
	xutil "PillarSight/pkg/util"

	"github.com/labstack/echo/v4"
)

// DecisionsEchoHandler exposes the analysis and history-query endpoints.
type DecisionsEchoHandler struct {
	logger   *xlogger.Logger
	engine   *usecase.AnalysisEngine
	history  *usecase.HistoryUseCase
	timeline *usecase.TimelineUseCase
	drift    *usecase.DriftUseCase
	store    domrepo.DecisionHistory
}

func NewDecisionsEchoHandler(
	logger *xlogger.Logger,
	engine *usecase.AnalysisEngine,
	history *usecase.HistoryUseCase,
	timeline *usecase.TimelineUseCase,
	drift *usecase.DriftUseCase,
	store domrepo.DecisionHistory,
) *DecisionsEchoHandler {
	return &DecisionsEchoHandler{
		logger:   logger,
		engine:   engine,
		history:  history,
		timeline: timeline,
		drift:    drift,
		store:    store,
	}
}

func (h *DecisionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/history", h.History)
	g.GET("/history/bias-distribution", h.BiasDistribution)
	g.GET("/timeline", h.Timeline)
	g.GET("/drift", h.Drift)
}

// Analyze runs one synchronous analysis cycle and optionally archives the
// decision.
func (h *DecisionsEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d := h.engine.Analyze(&req.Snapshot, &req.Context)

	if req.Persist && h.store != nil {
		if _, err := h.store.Save(c.Request().Context(), d); err != nil {
			h.logger.Error("persist decision error",
				xlogger.String("symbol", d.Symbol),
				xlogger.Error(err),
			)
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, d)
}

// History returns archived decisions by recency or date range.
func (h *DecisionsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	var from, to time.Time
	if req.From != "" && req.To != "" {
		from = xutil.ParseTimeDefault(req.From, time.Time{})
		to = xutil.ParseTimeDefault(req.To, time.Time{})
	}

	entries, err := h.history.GetHistory(c.Request().Context(), req.Symbol, req.Limit, from, to)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

// BiasDistribution returns per-bias decision counts for a symbol.
func (h *DecisionsEchoHandler) BiasDistribution(c echo.Context) error {
	req := &models.BiasDistributionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	dist, err := h.history.GetBiasDistribution(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("bias distribution usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, dist)
}

// Timeline returns conviction-timeline statistics.
func (h *DecisionsEchoHandler) Timeline(c echo.Context) error {
	req := &models.TimelineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tl, err := h.timeline.GetConvictionTimeline(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		h.logger.Error("timeline usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, tl)
}

// Drift returns pillar drift, latest-vs-previous by default or between two
// explicit timestamps.
func (h *DecisionsEchoHandler) Drift(c echo.Context) error {
	req := &models.DriftRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var (
		d   *models.PillarDrift
		err error
	)
	if req.PreviousTS != "" && req.CurrentTS != "" {
		prevTS, okPrev := xutil.ParseTime(req.PreviousTS)
		currTS, okCurr := xutil.ParseTime(req.CurrentTS)
		if !okPrev || !okCurr {
			return xhttp.BadRequestResponse(c, "prev_ts and curr_ts must be RFC3339 or unix seconds")
		}
		d, err = h.drift.GetPillarDriftBetween(c.Request().Context(), req.Symbol, prevTS, currTS)
	} else {
		d, err = h.drift.GetPillarDrift(c.Request().Context(), req.Symbol)
	}
	if err != nil {
		h.logger.Error("drift usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, d)
}
