package domain

import "errors"

// Sentinel errors for the lifecycle core. Callers distinguish "wrong state"
// (ErrInvalidTransition) from "wrong actor" (ErrPermissionDenied).
var (
	ErrInvalidTransition   = errors.New("Invalid status transition")
	ErrApplicationNotFound = errors.New("Application not found")
	ErrQueryNotFound       = errors.New("Query not found")
	ErrPermissionDenied    = errors.New("Permission denied")
	ErrNotQueryAuthor      = errors.New("Only the query author can resolve this query")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidRole         = errors.New("invalid role")
)
