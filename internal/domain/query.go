package domain

import (
	"time"

	"github.com/google/uuid"
)

// QueryStatus represents the open/resolved state of a query thread root
type QueryStatus string

const (
	QueryStatusOpen     QueryStatus = "open"
	QueryStatusResolved QueryStatus = "resolved"
)

// Query represents one node in a flat, pointer-based discussion thread
// against a loan file. The parent pointer and the open/resolved status are
// carried inside the encoded Content field (see querycontent.go), because
// the external record store has no native thread columns.
type Query struct {
	ID         string    `json:"id"`
	FileID     string    `json:"file_id"`
	AuthorID   string    `json:"author_id"`
	AuthorRole Role      `json:"author_role"`
	TargetRole Role      `json:"target_role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRootQuery creates a thread-starting query addressed to a role
func NewRootQuery(fileID, authorID string, authorRole, targetRole Role, message string) *Query {
	return &Query{
		ID:         generateQueryID(),
		FileID:     fileID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		TargetRole: targetRole,
		Content:    BuildQueryContent(message, QueryContentOptions{}),
		CreatedAt:  time.Now().UTC(),
	}
}

// NewReplyQuery creates a reply node pointing at a root query
func NewReplyQuery(fileID, parentID, authorID string, authorRole Role, message string) *Query {
	return &Query{
		ID:         generateQueryID(),
		FileID:     fileID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Content:    BuildQueryContent(message, QueryContentOptions{Parent: parentID}),
		CreatedAt:  time.Now().UTC(),
	}
}

// IsRoot reports whether the query starts a thread
func (q *Query) IsRoot() bool {
	return IsRootQuery(q.Content)
}

// ParentID returns the root the query replies to, empty for roots
func (q *Query) ParentID() string {
	return GetParentID(q.Content)
}

// Status returns the thread status carried in the encoded content
func (q *Query) Status() QueryStatus {
	return ParseQueryContent(q.Content).Status
}

// Message returns the clean display text with metadata tags stripped
func (q *Query) Message() string {
	return ParseQueryContent(q.Content).Message
}

func generateQueryID() string {
	return "qry_" + uuid.NewString()
}
