package student

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/middleware"
	"github.com/kmorozova/answerboard/internal/service"
	"github.com/rs/zerolog/log"
)

// AnswerController serves the student-facing submission surface: uploading
// answers and listing the authenticated student's own submissions.
type AnswerController struct {
	answerService service.AnswerService
	jwtSecret     string
}

func NewAnswerController(answerService service.AnswerService, jwtSecret string) *AnswerController {
	return &AnswerController{answerService: answerService, jwtSecret: jwtSecret}
}

func (ctrl *AnswerController) RegisterRoutes(router *gin.Engine) {
	router.POST("/evaluate", ctrl.EvaluateInline)
	router.POST("/api/upload", ctrl.Upload)
	router.GET("/api/student/answers", middleware.Auth(ctrl.jwtSecret), ctrl.MyAnswers)
}

// Upload godoc
// @Summary Submit an answer
// @Description Creates a new answer in pending status. Text may be replaced by an attached document file.
// @Tags Student
// @Accept json
// @Produce json
// @Param submission body dto.UploadRequest true "Submission payload"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or unsupported file type"
// @Router /api/upload [post]
func (ctrl *AnswerController) Upload(ctx *gin.Context) {
	var req dto.UploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := ctrl.answerService.Upload(ctx.Request.Context(), req)
	if err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
			return
		}
		log.Error().Err(err).Msg("Upload: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save answer"})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// EvaluateInline godoc
// @Summary Submit and score an answer in one call
// @Description Legacy submission path kept for older clients: the answer is stored already evaluated with a simulated score and comment.
// @Tags Student
// @Accept json
// @Produce json
// @Param submission body dto.UploadRequest true "Submission payload"
// @Success 200 {object} dto.EvaluateResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Router /evaluate [post]
func (ctrl *AnswerController) EvaluateInline(ctx *gin.Context) {
	var req dto.UploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := ctrl.answerService.EvaluateInline(ctx.Request.Context(), req)
	if err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
			return
		}
		log.Error().Err(err).Msg("EvaluateInline: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to evaluate answer"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// MyAnswers godoc
// @Summary List the authenticated student's answers
// @Description Returns the subset of stored answers belonging to the student identified by the bearer token.
// @Tags Student
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} dto.AnswerResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or malformed Authorization header"
// @Router /api/student/answers [get]
func (ctrl *AnswerController) MyAnswers(ctx *gin.Context) {
	session, ok := middleware.GetSession(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Not authenticated"})
		return
	}

	answers, err := ctrl.answerService.ListByStudent(session.Email)
	if err != nil {
		log.Error().Err(err).Str("student", session.Email).Msg("MyAnswers: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve answers"})
		return
	}

	ctx.JSON(http.StatusOK, answers)
}
