package teacher

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/middleware"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnswerController serves the reviewing side: the full answer list, the
// detail view, manual evaluation via partial update, and scorer-driven
// automatic evaluation.
type AnswerController struct {
	answerService service.AnswerService
	jwtSecret     string
}

func NewAnswerController(answerService service.AnswerService, jwtSecret string) *AnswerController {
	return &AnswerController{answerService: answerService, jwtSecret: jwtSecret}
}

func (ctrl *AnswerController) RegisterRoutes(router *gin.Engine) {
	// Both prefixes are served: /answers and /answer/:id predate the /api
	// prefix and older clients still call them.
	router.GET("/answers", ctrl.ListAnswers)
	router.GET("/api/answers", ctrl.ListAnswers)
	router.GET("/answer/:id", ctrl.GetAnswer)
	router.GET("/api/answer/:id", ctrl.GetAnswer)
	router.PUT("/api/answer/:id", ctrl.UpdateAnswer)
	router.POST("/api/answer/:id/auto-evaluate",
		middleware.Auth(ctrl.jwtSecret), middleware.RequireRole(model.RoleTeacher),
		ctrl.AutoEvaluate)
}

// ListAnswers godoc
// @Summary List all answers
// @Description Returns a full snapshot of the store in insertion order.
// @Tags Teacher
// @Produce json
// @Success 200 {array} dto.AnswerResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/answers [get]
func (ctrl *AnswerController) ListAnswers(ctx *gin.Context) {
	answers, err := ctrl.answerService.List()
	if err != nil {
		log.Error().Err(err).Msg("ListAnswers: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve answers"})
		return
	}
	ctx.JSON(http.StatusOK, answers)
}

// GetAnswer godoc
// @Summary Get a single answer
// @Description Returns the record for the given id. Unrecognized stored status values are normalized to pending.
// @Tags Teacher
// @Produce json
// @Param id path string true "Answer ID"
// @Success 200 {object} dto.AnswerResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown id"
// @Router /api/answer/{id} [get]
func (ctrl *AnswerController) GetAnswer(ctx *gin.Context) {
	id := ctx.Param("id")

	answer, err := ctrl.answerService.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Answer not found"})
			return
		}
		log.Error().Err(err).Str("id", id).Msg("GetAnswer: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve answer"})
		return
	}

	ctx.JSON(http.StatusOK, answer)
}

// UpdateAnswer godoc
// @Summary Update an answer
// @Description Shallow-merges the supplied fields onto the record. Entering evaluated status requires both a score and a comment.
// @Tags Teacher
// @Accept json
// @Produce json
// @Param id path string true "Answer ID"
// @Param update body dto.AnswerUpdateRequest true "Fields to merge"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id, invalid field value or forbidden status transition"
// @Failure 404 {object} dto.ErrorResponse "Unknown id"
// @Router /api/answer/{id} [put]
func (ctrl *AnswerController) UpdateAnswer(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.AnswerUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	answer, err := ctrl.answerService.Update(id, req)
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Answer not found"})
		default:
			log.Error().Err(err).Str("id", id).Msg("UpdateAnswer: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update answer"})
		}
		return
	}

	ctx.JSON(http.StatusOK, answer)
}

// AutoEvaluate godoc
// @Summary Automatically evaluate an answer
// @Description Runs the configured scorer against the submission and stores the resulting score and comment with evaluated status.
// @Tags Teacher
// @Produce json
// @Param id path string true "Answer ID"
// @Param Authorization header string true "Bearer token (teacher role)"
// @Success 200 {object} dto.AnswerResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or malformed Authorization header"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 404 {object} dto.ErrorResponse "Unknown id"
// @Router /api/answer/{id}/auto-evaluate [post]
func (ctrl *AnswerController) AutoEvaluate(ctx *gin.Context) {
	id := ctx.Param("id")

	answer, err := ctrl.answerService.AutoEvaluate(ctx.Request.Context(), id)
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Answer not found"})
		default:
			log.Error().Err(err).Str("id", id).Msg("AutoEvaluate: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to evaluate answer"})
		}
		return
	}

	ctx.JSON(http.StatusOK, answer)
}
