package model

import (
	"time"

	"gorm.io/gorm"
)

// AnswerStatus is the lifecycle state of a submitted answer.
type AnswerStatus string

const (
	StatusPending    AnswerStatus = "pending"
	StatusInProgress AnswerStatus = "in_progress"
	StatusEvaluated  AnswerStatus = "evaluated"
)

// statusRank orders the lifecycle: pending -> in_progress -> evaluated.
var statusRank = map[AnswerStatus]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusEvaluated:  2,
}

// NormalizeStatus maps any unrecognized status value to "pending" so that
// records written by older revisions never surface an unknown state.
func NormalizeStatus(s AnswerStatus) AnswerStatus {
	if _, ok := statusRank[s]; ok {
		return s
	}
	return StatusPending
}

// ValidTransition reports whether an answer may move from one status to
// another. Staying in place is always allowed; otherwise the lifecycle only
// moves forward (a teacher may evaluate a pending answer directly, skipping
// in_progress).
func ValidTransition(from, to AnswerStatus) bool {
	fromRank, ok := statusRank[NormalizeStatus(from)]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// AllowedFileTypes is the closed set of document extensions accepted for
// file-based submissions.
var AllowedFileTypes = map[string]bool{
	"doc":  true,
	"docx": true,
	"pdf":  true,
	"txt":  true,
	"ppt":  true,
	"pptx": true,
}

// Answer is a single student submission with its grading metadata.
// ID is a timestamp-derived string assigned at creation and immutable after.
type Answer struct {
	ID        string         `gorm:"primarykey" json:"id"`
	Student   string         `json:"student" gorm:"not null;index"`
	Subject   string         `json:"subject" gorm:"not null"`
	Text      string         `json:"text" gorm:"type:text"`
	FileName  *string        `json:"fileName,omitempty"`
	FileType  *string        `json:"fileType,omitempty"`
	Status    AnswerStatus   `json:"status" gorm:"default:'pending'"`
	Score     *int           `json:"score"`
	Comment   *string        `json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnswerPatch carries a partial-field update for an answer. Nil fields are
// left untouched by the merge.
type AnswerPatch struct {
	Subject  *string       `json:"subject,omitempty"`
	Text     *string       `json:"text,omitempty"`
	FileName *string       `json:"fileName,omitempty"`
	FileType *string       `json:"fileType,omitempty"`
	Status   *AnswerStatus `json:"status,omitempty"`
	Score    *int          `json:"score,omitempty"`
	Comment  *string       `json:"comment,omitempty"`
}

// Apply shallow-merges the patch onto the answer in place.
func (p AnswerPatch) Apply(a *Answer) {
	if p.Subject != nil {
		a.Subject = *p.Subject
	}
	if p.Text != nil {
		a.Text = *p.Text
	}
	if p.FileName != nil {
		a.FileName = p.FileName
	}
	if p.FileType != nil {
		a.FileType = p.FileType
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Score != nil {
		a.Score = p.Score
	}
	if p.Comment != nil {
		a.Comment = p.Comment
	}
}
