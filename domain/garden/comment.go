package garden

import (
	"strings"
	"time"

	pkgerrors "gardend/pkg/errors"
)

// MaxCommentLength caps the text of a single comment.
const MaxCommentLength = 500

// Comment is a short note left on a memory. Comments belong to exactly one
// memory and are deletable individually.
type Comment struct {
	id        string
	memoryID  string
	text      string
	createdAt time.Time
}

// NewComment creates a comment with trimmed, length-capped text.
func NewComment(memoryID, text string, now time.Time) (*Comment, error) {
	if memoryID == "" {
		return nil, pkgerrors.NewValidationError("memoryID cannot be empty")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.NewValidationError("comment text cannot be empty")
	}
	if len(text) > MaxCommentLength {
		return nil, pkgerrors.NewValidationError("comment text cannot exceed 500 characters")
	}

	return &Comment{
		memoryID:  memoryID,
		text:      text,
		createdAt: now,
	}, nil
}

// ReconstructComment rebuilds a comment from store data.
func ReconstructComment(id, memoryID, text string, createdAt time.Time) *Comment {
	return &Comment{
		id:        id,
		memoryID:  memoryID,
		text:      text,
		createdAt: createdAt,
	}
}

// WithID returns a copy of the comment carrying the store-assigned id.
func (c *Comment) WithID(id string) *Comment {
	copied := *c
	copied.id = id
	return &copied
}

// ID returns the store-assigned identifier.
func (c *Comment) ID() string { return c.id }

// MemoryID returns the owning memory's id.
func (c *Comment) MemoryID() string { return c.memoryID }

// Text returns the comment text.
func (c *Comment) Text() string { return c.text }

// CreatedAt returns when the comment was written.
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
