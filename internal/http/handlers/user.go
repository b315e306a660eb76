package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/platform/ctxutil"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

// requestUserID pulls the authenticated user from the context; the auth
// middleware guarantees it on protected routes.
func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetMe failed", "error", err, "user_id", userID)
		response.RespondError(c, http.StatusInternalServerError, "load_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "update_profile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

type updateInterestsRequest struct {
	Interests []string `json:"interests"`
}

func (h *UserHandler) UpdateInterests(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req updateInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := h.userService.UpdateInterests(c.Request.Context(), userID, req.Interests)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "update_interests_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
