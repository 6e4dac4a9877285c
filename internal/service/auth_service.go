package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kmorozova/answerboard/config"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/repository"
	"github.com/kmorozova/answerboard/internal/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// emailPattern accepts the local@domain.tld shape and nothing fancier.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// AuthService handles registration and login. Registration enforces a
// uniqueness check on email; login is deliberately unverified (any non-empty
// email and password, role chosen by the client) and only exists to issue a
// session token for the UI. It is not a security boundary.
type AuthService interface {
	Register(req dto.RegisterRequest) error
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(req dto.RegisterRequest) error {
	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Role == "" || req.Password == "" {
		return validationErr("All required fields must be filled")
	}
	if !emailPattern.MatchString(req.Email) {
		return validationErr("Invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return validationErr("Password must be at least 6 characters long")
	}
	if !model.ValidRole(req.Role) {
		return validationErr("Role must be either teacher or student")
	}

	_, err := s.userRepo.FindByEmail(req.Email)
	if err == nil {
		return validationErr("A user with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.RegisteredUser{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return validationErr("A user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("User registered")
	return nil
}

func (s *authService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, validationErr("Email and password are required")
	}
	if !model.ValidRole(req.Role) {
		return nil, validationErr("Role must be either teacher or student")
	}

	token, err := util.GenerateJWT(req.Email, req.Role, s.cfg.JWT.Secret, s.cfg.JWT.Expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info().Str("email", req.Email).Str("role", string(req.Role)).Msg("Session token issued")
	return &dto.LoginResponse{Token: token, Email: req.Email, Role: req.Role}, nil
}
