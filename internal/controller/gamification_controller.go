package controller

import (
	"strconv"

	"wanderlust_backend/internal/service"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	GamificationService *service.GamificationService
	Faults              *faults.Handler
}

func NewGamificationController(gamificationService *service.GamificationService, faultHandler *faults.Handler) *GamificationController {
	return &GamificationController{GamificationService: gamificationService, Faults: faultHandler}
}

// Overview godoc
// @Summary Points, level, streak, rank, and earned rewards
// @Tags gamification
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Overview}
// @Router /api/gamification/overview [get]
func (c *GamificationController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.GamificationService.GetOverview(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, overview)
}

// Achievements godoc
// @Summary All achievements with earned status
// @Tags gamification
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.AchievementStatus}
// @Router /api/gamification/achievements [get]
func (c *GamificationController) Achievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	statuses, err := c.GamificationService.ListAchievements(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, statuses)
}

// Leaderboard godoc
// @Summary Top players by total points
// @Tags gamification
// @Produce  json
// @Param   limit query int false "number of entries, default 10, max 50"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/gamification/leaderboard [get]
func (c *GamificationController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	entries, err := c.GamificationService.Leaderboard(limit)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, entries)
}

type ShareRequest struct {
	AchievementID string `json:"achievementId"`
}

// Share godoc
// @Summary Record a shared result
// @Description Counts toward the social-butterfly achievement
// @Tags gamification
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ShareRequest true "shared achievement, optional"
// @Success 200 {object} util.Response{data=[]model.AchievementDef}
// @Failure 429 {object} util.Response
// @Router /api/gamification/share [post]
func (c *GamificationController) Share(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ShareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	unlocked, err := c.GamificationService.RecordShare(claims.UserID, req.AchievementID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, unlocked)
}
