package controller

import (
	"strconv"

	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/service"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	Faults      *faults.Handler
}

func NewUserController(userService *service.UserService, faultHandler *faults.Handler) *UserController {
	return &UserController{UserService: userService, Faults: faultHandler}
}

// GetProfile godoc
// @Summary Personalization profile
// @Description Returns the user's quiz personalization profile
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 401 {object} util.Response
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, profile)
}

type PreferencesRequest struct {
	PreferredCategories []string          `json:"preferredCategories"`
	Interests           []string          `json:"interests"`
	SkillLevels         model.SkillLevels `json:"skillLevels"`
}

// UpdatePreferences godoc
// @Summary Update personalization preferences
// @Description Replaces preferred categories, interests, and skill levels
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PreferencesRequest true "preferences"
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 400 {object} util.Response
// @Router /api/users/profile [put]
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdatePreferences(claims.UserID, req.PreferredCategories, req.Interests, req.SkillLevels)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, profile)
}

// GetProgress godoc
// @Summary Lifetime answering progress
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Router /api/users/progress [get]
func (c *UserController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.UserService.GetProgress(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, progress)
}

// RecentAttempts godoc
// @Summary Recent quiz attempts
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "max attempts to return"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/users/attempts [get]
func (c *UserController) RecentAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	attempts, err := c.UserService.RecentAttempts(claims.UserID, limit)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, attempts)
}
