package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (ctrl *AuthController) RegisterRoutes(router *gin.Engine) {
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
}

// Register godoc
// @Summary Register a new account
// @Description Validates the registration form and records the email. Duplicate emails and weak passwords are rejected.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Registration form"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate email"
// @Router /register [post]
func (ctrl *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := ctrl.authService.Register(req); err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Register: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to register user"})
		return
	}

	ctx.JSON(http.StatusOK, dto.RegisterResponse{Message: "Registration successful"})
}

// Login godoc
// @Summary Issue a session token
// @Description Accepts any non-empty email and password and issues a signed token for the client-chosen role. Not a credential check.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login form"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or unknown role"
// @Router /login [post]
func (ctrl *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Email, password and role are required"})
		return
	}

	resp, err := ctrl.authService.Login(req)
	if err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message})
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to log in"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
