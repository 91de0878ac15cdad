// Package model provides core data types for crmcore.
package model

import "errors"

// Error types for data-access operations
var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnknownField   = errors.New("unknown field")
	ErrEmptyTenant    = errors.New("tenant id is required")
	ErrImmutableField = errors.New("field cannot be modified")
	ErrInvalidCursor  = errors.New("invalid pagination cursor")
	ErrEmptyBatch     = errors.New("batch has no statements")
	ErrNoColumns      = errors.New("no columns to write")
)
