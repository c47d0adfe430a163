package controller

import (
	"strconv"

	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/service"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	FeederService   *service.FeederService
	Faults          *faults.Handler
}

func NewQuestionController(
	questionService *service.QuestionService,
	feederService *service.FeederService,
	faultHandler *faults.Handler,
) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		FeederService:   feederService,
		Faults:          faultHandler,
	}
}

// Feed godoc
// @Summary Personalized question feed
// @Description Returns a batch of questions filtered, adaptively narrowed, and ranked for the user
// @Tags questions
// @Produce  json
// @Security ApiKeyAuth
// @Param   category     query string false "category filter"
// @Param   subcategory  query string false "subcategory filter"
// @Param   difficulty   query string false "difficulty filter"
// @Param   count        query int    false "batch size, default 10"
// @Param   adaptive     query bool   false "narrow by recent performance, default true"
// @Param   excludeShown query bool   false "skip already-answered questions, default true"
// @Param   personalized query bool   false "rank against the user's profile, default true"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 429 {object} util.Response
// @Router /api/questions/feed [get]
func (c *QuestionController) Feed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.FeederService.Feed(claims.UserID, parseFeedOptions(ctx))
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, questions)
}

// parseFeedOptions reads the feed filters and switches off the query string.
// The boolean switches stay unset when absent or malformed so the feeder
// applies its defaults.
func parseFeedOptions(ctx *gin.Context) service.FeedOptions {
	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "10"))
	opts := service.FeedOptions{
		Category:    ctx.Query("category"),
		Subcategory: ctx.Query("subcategory"),
		Difficulty:  model.Difficulty(ctx.Query("difficulty")),
		Count:       count,
	}
	if v, err := strconv.ParseBool(ctx.Query("adaptive")); err == nil {
		opts.Adaptive = &v
	}
	if v, err := strconv.ParseBool(ctx.Query("excludeShown")); err == nil {
		opts.ExcludeShown = &v
	}
	if v, err := strconv.ParseBool(ctx.Query("personalized")); err == nil {
		opts.Personalized = &v
	}
	return opts
}

// Daily godoc
// @Summary Daily question batch
// @Description Streak-scaled daily mix from the user's preferred categories
// @Tags questions
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 429 {object} util.Response
// @Router /api/questions/daily [get]
func (c *QuestionController) Daily(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.FeederService.DailyFeed(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, questions)
}

type PracticeRequest struct {
	WeakAreas []service.WeakArea `json:"weakAreas" binding:"required,min=1"`
}

// Practice godoc
// @Summary Practice questions for weak areas
// @Tags questions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PracticeRequest true "weak areas to practice"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/questions/practice [post]
func (c *QuestionController) Practice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.FeederService.PracticeFeed(claims.UserID, req.WeakAreas)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, questions)
}

// Challenge godoc
// @Summary Advanced challenge questions
// @Description Available once the user's average score reaches 70
// @Tags questions
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 403 {object} util.Response
// @Router /api/questions/challenge [get]
func (c *QuestionController) Challenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.FeederService.ChallengeFeed(claims.UserID)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, questions)
}

// Search godoc
// @Summary Search the question bank
// @Tags questions
// @Produce  json
// @Security ApiKeyAuth
// @Param   category   query string false "category filter"
// @Param   difficulty query string false "difficulty filter"
// @Param   q          query string false "keyword against prompt and explanation"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/questions/search [get]
func (c *QuestionController) Search(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	questions, err := c.QuestionService.Search(
		ctx.Query("category"),
		model.Difficulty(ctx.Query("difficulty")),
		ctx.Query("q"),
		limit,
	)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, questions)
}

// Stats godoc
// @Summary Question bank statistics
// @Tags questions
// @Produce  json
// @Success 200 {object} util.Response{data=catalog.Stats}
// @Router /api/questions/stats [get]
func (c *QuestionController) Stats(ctx *gin.Context) {
	util.Success(ctx, c.QuestionService.Stats())
}

// Categories godoc
// @Summary Available categories
// @Tags questions
// @Produce  json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/questions/categories [get]
func (c *QuestionController) Categories(ctx *gin.Context) {
	util.Success(ctx, c.QuestionService.Categories())
}

// Create godoc
// @Summary Author a new question
// @Description Editors and admins only
// @Tags questions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.Question true "question to add"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var q model.Question
	if err := ctx.ShouldBindJSON(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.QuestionService.Create(q)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, created)
}

// UploadImage godoc
// @Summary Attach an image to a question
// @Description Editors and admins only; image-identification questions
// @Tags questions
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id   path     string true "question id"
// @Param   file formData file   true "image file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/questions/{id}/image [post]
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := util.ValidateMimeType(file, []string{util.MimeImage}); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	url, err := c.QuestionService.AttachImage(
		ctx.Request.Context(),
		ctx.Param("id"),
		file,
		fileHeader.Size,
		fileHeader.Filename,
		contentType,
	)
	if err != nil {
		respondError(ctx, c.Faults, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

