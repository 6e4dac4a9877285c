package dto

import "github.com/kmorozova/answerboard/internal/model"

// RegisterRequest mirrors the registration form. Required-field and format
// checks happen in the service so that every failure surfaces as the same
// {error} body shape regardless of which rule tripped.
type RegisterRequest struct {
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	MiddleName *string        `json:"middleName,omitempty"`
	Role       model.UserRole `json:"role"`
	Password   string         `json:"password"`
}

// LoginRequest carries the login form. The role is chosen by the client;
// the server issues a token for it without verifying anything beyond
// non-emptiness. This is a UI convenience, not a security boundary.
type LoginRequest struct {
	Email    string         `json:"email" binding:"required"`
	Password string         `json:"password" binding:"required"`
	Role     model.UserRole `json:"role" binding:"required,oneof=teacher student"`
}

// UploadRequest is the body of POST /api/upload and the legacy POST /evaluate.
// Text may be empty when a file is attached instead.
type UploadRequest struct {
	Student  string  `json:"student"`
	Subject  string  `json:"subject"`
	Text     string  `json:"text"`
	FileName *string `json:"fileName,omitempty"`
	FileType *string `json:"fileType,omitempty"`
}

// AnswerUpdateRequest is the body of PUT /api/answer/:id. Absent fields are
// not touched by the merge.
type AnswerUpdateRequest struct {
	Subject  *string             `json:"subject,omitempty"`
	Text     *string             `json:"text,omitempty"`
	FileName *string             `json:"fileName,omitempty"`
	FileType *string             `json:"fileType,omitempty"`
	Status   *model.AnswerStatus `json:"status,omitempty"`
	Score    *int                `json:"score,omitempty"`
	Comment  *string             `json:"comment,omitempty"`
}

// Patch converts the request into a model-level patch.
func (r AnswerUpdateRequest) Patch() model.AnswerPatch {
	return model.AnswerPatch{
		Subject:  r.Subject,
		Text:     r.Text,
		FileName: r.FileName,
		FileType: r.FileType,
		Status:   r.Status,
		Score:    r.Score,
		Comment:  r.Comment,
	}
}
