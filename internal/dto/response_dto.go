package dto

import (
	"time"

	"github.com/kmorozova/answerboard/internal/model"
)

// AnswerResponse is the wire form of a stored answer.
type AnswerResponse struct {
	ID        string             `json:"id"`
	Student   string             `json:"student"`
	Subject   string             `json:"subject"`
	Text      string             `json:"text"`
	FileName  *string            `json:"fileName,omitempty"`
	FileType  *string            `json:"fileType,omitempty"`
	Status    model.AnswerStatus `json:"status"`
	Score     *int               `json:"score"`
	Comment   *string            `json:"comment"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	ID     string             `json:"id"`
	Status model.AnswerStatus `json:"status"`
}

// EvaluateResponse is returned by the legacy POST /evaluate path, which
// scores the submission inline.
type EvaluateResponse struct {
	ID      string `json:"id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string         `json:"token"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
