package controller

import (
	"encoding/json"

	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/service"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
	Faults      *faults.Handler
}

func NewQuizController(quizService *service.QuizService, faultHandler *faults.Handler) *QuizController {
	return &QuizController{QuizService: quizService, Faults: faultHandler}
}

// Start godoc
// @Summary Start a quiz session
// @Description Assembles a question set and returns the first question
// @Tags quiz
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.QuizConfig true "session configuration"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 204 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /api/quiz/start [post]
func (c *QuizController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var cfg model.QuizConfig
	if err := ctx.ShouldBindJSON(&cfg); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.StartQuiz(claims.UserID, cfg)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, view)
}

type AnswerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

// Answer godoc
// @Summary Submit an answer for the current question
// @Description Grades the answer, updates score and streak, and advances the session
// @Tags quiz
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id   path string        true "session id"
// @Param   body body AnswerRequest true "submitted answer, shape depends on the question type"
// @Success 200 {object} util.Response{data=service.AnswerOutcome}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/quiz/{id}/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.QuizService.SubmitAnswer(ctx.Param("id"), claims.UserID, req.Answer)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, outcome)
}

// Skip godoc
// @Summary Skip the current question
// @Description Records no answer, resets the streak, and advances the session
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.AnswerOutcome}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/{id}/skip [post]
func (c *QuizController) Skip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	outcome, err := c.QuizService.SkipQuestion(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, outcome)
}

// Get godoc
// @Summary Current session state
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Router /api/quiz/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.GetSession(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, view)
}
