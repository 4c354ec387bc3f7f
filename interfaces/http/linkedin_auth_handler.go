package http

import (
	"net/http"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
	"skallars-social/usecase"

	"github.com/gin-gonic/gin"
)

type ILinkedInAuthHandler interface {
	Connect(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Status(ctx *gin.Context)
	Organizations(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
}

type LinkedInAuthHandler struct {
	oauthUsecase usecase.IOAuthUsecase
}

func NewLinkedInAuthHandler(oauthUsecase usecase.IOAuthUsecase) ILinkedInAuthHandler {
	return &LinkedInAuthHandler{oauthUsecase: oauthUsecase}
}

// Connect handles GET /api/linkedin/connect
func (h *LinkedInAuthHandler) Connect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	redirectTo := ctx.Query("redirect_to")
	authURL, err := h.oauthUsecase.StartConnect(ctx.Request.Context(), userID, redirectTo)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("starting LinkedIn connect failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// Callback handles GET /auth/linkedin/callback. Failures redirect silently to
// the fallback path; the browser never sees an error page.
func (h *LinkedInAuthHandler) Callback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	redirectTo := h.oauthUsecase.HandleCallback(ctx.Request.Context(), code, state)
	ctx.Redirect(http.StatusFound, redirectTo)
}

// Status handles GET /api/linkedin/status
func (h *LinkedInAuthHandler) Status(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	status, err := h.oauthUsecase.Status(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// Organizations handles GET /api/linkedin/organizations
func (h *LinkedInAuthHandler) Organizations(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	orgs, err := h.oauthUsecase.Organizations(ctx.Request.Context(), userID)
	if err != nil {
		if _, ok := err.(*model.NotConnectedError); ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orgs == nil {
		orgs = []model.Organization{}
	}
	ctx.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// Disconnect handles DELETE /api/linkedin/disconnect
func (h *LinkedInAuthHandler) Disconnect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if err := h.oauthUsecase.Disconnect(ctx.Request.Context(), userID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"disconnected": true})
}
