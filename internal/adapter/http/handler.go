package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	adventureapp "questforge/internal/app/adventure"
	"questforge/internal/app/auth"
	"questforge/internal/app/history"
	"questforge/internal/app/lifecycle"
	"questforge/internal/app/ports"
	questapp "questforge/internal/app/quest"
	walletapp "questforge/internal/app/wallet"
	"questforge/internal/domain/adventure"
	"questforge/internal/domain/quest"
	"questforge/internal/domain/wallet"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const userIDHeader = "X-User-ID"
const userKeyHeader = "X-User-Key"

type Handler struct {
	RegisterUC  auth.RegisterUseCase
	AuthUC      auth.VerifyUseCase
	AdventureUC adventureapp.UseCase
	QuestUC     questapp.UseCase
	WalletUC    walletapp.UseCase
	HistoryUC   history.UseCase
	KPI         kpiSnapshotProvider
	// AllowOrigins restricts CORS; empty allows any origin.
	AllowOrigins []string
}

func (h Handler) RegisterRoutes(r *server.Hertz) {
	r.Use(corsMiddleware(h.AllowOrigins))

	r.POST("/api/user/register", h.register)

	r.GET("/api/adventure", h.adventureStatus)
	r.POST("/api/adventure/start", h.adventureStart)
	r.POST("/api/adventure/collect", h.adventureCollect)
	r.POST("/api/adventure/reset", h.adventureReset)
	r.POST("/api/session/end", h.sessionEnd)

	r.GET("/api/quests", h.listQuests)
	r.POST("/api/quests", h.createQuest)
	r.POST("/api/quests/:id/complete", h.completeQuest)

	r.GET("/api/wallet", h.wallet)
	r.GET("/api/history", h.history)

	r.GET("/ops/kpi", h.kpi)
}

type createQuestRequest struct {
	Title    string `json:"title"`
	IconPath string `json:"icon_path"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) adventureStatus(c context.Context, ctx *app.RequestContext) {
	h.adventureCall(c, ctx, h.AdventureUC.Status)
}

func (h Handler) adventureStart(c context.Context, ctx *app.RequestContext) {
	h.adventureCall(c, ctx, h.AdventureUC.Start)
}

func (h Handler) adventureReset(c context.Context, ctx *app.RequestContext) {
	h.adventureCall(c, ctx, h.AdventureUC.Reset)
}

func (h Handler) adventureCall(c context.Context, ctx *app.RequestContext, fn func(context.Context, adventureapp.Request) (adventureapp.Response, error)) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	resp, err := fn(c, adventureapp.Request{UserID: userID})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) adventureCollect(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	resp, err := h.AdventureUC.Collect(c, adventureapp.Request{UserID: userID})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) sessionEnd(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	if err := h.AdventureUC.EndSession(c, adventureapp.Request{UserID: userID}); err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"ended": true})
}

func (h Handler) listQuests(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	resp, err := h.QuestUC.List(c, questapp.ListRequest{UserID: userID})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) createQuest(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	var body createQuestRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	q, err := h.QuestUC.Create(c, questapp.CreateRequest{UserID: userID, Title: body.Title, IconPath: body.IconPath})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, q)
}

func (h Handler) completeQuest(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	resp, err := h.QuestUC.Complete(c, questapp.CompleteRequest{UserID: userID, QuestID: ctx.Param("id")})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) wallet(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	w, err := h.WalletUC.Balance(c, walletapp.Request{UserID: userID})
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, w)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(c, ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.HistoryUC.Execute(c, history.Request{
		UserID:       userID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(c, ctx, err)
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

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")
var ErrMissingUserKeyHeader = errors.New("missing x-user-key header")
var ErrMissingUserCredentials = errors.New("missing user credentials")

func (h Handler) requireAuthenticatedUser(c context.Context, ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	userKey := strings.TrimSpace(string(ctx.GetHeader(userKeyHeader)))
	if userID == "" && userKey == "" {
		return "", ErrMissingUserCredentials
	}
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	if userKey == "" {
		return "", ErrMissingUserKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		UserID:  userID,
		UserKey: userKey,
	}); err != nil {
		return "", err
	}
	return userID, nil
}

func writeError(c context.Context, ctx *app.RequestContext, err error) {
	var transition *adventure.TransitionError
	switch {
	case errors.Is(err, ErrMissingUserCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_credentials", err.Error())
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_id", err.Error())
	case errors.Is(err, ErrMissingUserKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_user_credentials", err.Error())
	case errors.As(err, &transition):
		writeErrorBody(ctx, consts.StatusConflict, string(transition.Reason), err.Error())
	case errors.Is(err, adventure.ErrInvalidTransition):
		writeErrorBody(ctx, consts.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, lifecycle.ErrSessionClosed):
		writeErrorBody(ctx, consts.StatusConflict, "session_closed", err.Error())
	case errors.Is(err, quest.ErrEmptyTitle),
		errors.Is(err, quest.ErrTitleTooLong),
		errors.Is(err, quest.ErrUnknownIcon):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_quest", err.Error())
	case errors.Is(err, wallet.ErrInvalidAmount):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, adventureapp.ErrInvalidRequest),
		errors.Is(err, questapp.ErrInvalidRequest),
		errors.Is(err, walletapp.ErrInvalidRequest),
		errors.Is(err, history.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, lifecycle.ErrInvalidUserID):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrPersistenceUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "persistence_unavailable", "storage temporarily unavailable")
	default:
		hlog.CtxErrorf(c, "http: %s %s failed: %v", ctx.Method(), ctx.Path(), err)
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
