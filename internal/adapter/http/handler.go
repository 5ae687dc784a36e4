package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"hearthfield/internal/app/action"
	"hearthfield/internal/app/game"
	"hearthfield/internal/app/ports"
	"hearthfield/internal/app/replay"
	"hearthfield/internal/domain/forage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	GameUC   game.UseCase
	ReplayUC replay.UseCase
	KPI      kpiSnapshotProvider

	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	g := s.Group("/api/game")
	g.POST("/action", h.action)
	g.POST("/tech/unlock", h.unlock)
	g.GET("/tech", h.technologies)
	g.POST("/tick", h.tick)
	g.GET("/status", h.status)
	g.POST("/stats/reset", h.resetStats)
	g.GET("/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type unlockRequest struct {
	TechID string `json:"tech_id"`
}

type tickRequest struct {
	Count int `json:"count"`
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GameUC.PerformAction(c, game.ActionRequest{Resource: body.Resource, Action: body.Action})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) unlock(c context.Context, ctx *app.RequestContext) {
	var body unlockRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GameUC.UnlockTechnology(c, game.UnlockRequest{TechID: body.TechID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) technologies(c context.Context, ctx *app.RequestContext) {
	resp, err := h.GameUC.Technologies(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// tick defaults to a single step when the body is empty.
func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	body := tickRequest{Count: 1}
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GameUC.AdvanceTick(c, game.TickRequest{Count: body.Count})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.GameUC.Status(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resetStats(c context.Context, ctx *app.RequestContext) {
	resp, err := h.GameUC.ResetTracker(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	sessionID := strings.TrimSpace(string(ctx.Query("session_id")))
	if sessionID == "" {
		sessionID = h.GameUC.SessionID
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID:    sessionID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var nameErr *game.UnknownNameError
	switch {
	case errors.As(err, &nameErr):
		ctx.JSON(consts.StatusNotFound, map[string]any{
			"error": map[string]any{
				"code":       "unknown_" + nameErr.Kind,
				"message":    err.Error(),
				"suggestion": nameErr.Suggestion,
			},
		})
	case errors.Is(err, game.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, action.ErrUnknownActionType):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_action_type", err.Error())
	case errors.Is(err, forage.ErrNotFound),
		errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
