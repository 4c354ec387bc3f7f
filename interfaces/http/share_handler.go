package http

import (
	"net/http"
	"strconv"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
	"skallars-social/usecase"

	"github.com/gin-gonic/gin"
)

type IShareHandler interface {
	Schedule(ctx *gin.Context)
	ShareNow(ctx *gin.Context)
	Queue(ctx *gin.Context)
	Logs(ctx *gin.Context)
	Run(ctx *gin.Context)
	RunInternal(ctx *gin.Context)
}

type ShareHandler struct {
	shareUsecase usecase.IShareUsecase
}

func NewShareHandler(shareUsecase usecase.IShareUsecase) IShareHandler {
	return &ShareHandler{shareUsecase: shareUsecase}
}

// Schedule handles POST /api/share/schedule
func (h *ShareHandler) Schedule(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	var req dto.ScheduleShareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := h.shareUsecase.Schedule(ctx.Request.Context(), userID, &req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.GetLogger().WithField("user_id", userID).WithField("error", err.Error()).Error("scheduling share failed")
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"item": item})
}

// ShareNow handles POST /api/share/now
func (h *ShareHandler) ShareNow(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	var req dto.ScheduleShareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, outcomes, err := h.shareUsecase.ShareNow(ctx.Request.Context(), userID, &req)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": item, "outcomes": outcomes})
}

// Queue handles GET /api/share/queue
func (h *ShareHandler) Queue(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	items, err := h.shareUsecase.Queue(ctx.Request.Context(), userID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []*model.ShareQueueItem{}
	}
	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

// Logs handles GET /api/share/logs; ?metrics=1 enriches entries with fetched
// engagement counters and advisory notes.
func (h *ShareHandler) Logs(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	withMetrics := ctx.Query("metrics") == "1" || ctx.Query("metrics") == "true"
	entries, notes, err := h.shareUsecase.Logs(ctx.Request.Context(), userID, limit, withMetrics)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []dto.ShareLogEntry{}
	}
	ctx.JSON(http.StatusOK, gin.H{"logs": entries, "notes": notes})
}

// Run handles POST /api/share/run, scoped to the session user.
func (h *ShareHandler) Run(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	outcomes, err := h.shareUsecase.RunDue(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// RunInternal handles POST /internal/share/run, authenticated by the shared
// scheduler secret and unscoped across users.
func (h *ShareHandler) RunInternal(ctx *gin.Context) {
	outcomes, err := h.shareUsecase.RunDue(ctx.Request.Context(), "")
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

func statusForError(err error) int {
	switch err.(type) {
	case *model.ValidationError:
		return http.StatusBadRequest
	case *model.NotConnectedError:
		return http.StatusBadRequest
	case *model.UpstreamAuthError, *model.UpstreamDeliveryError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
