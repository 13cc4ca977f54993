package domain

import "errors"

// Sentinel errors shared by the pipeline stages; compare with errors.Is.
var (
	// ErrMissingColumn indicates a required column is absent from an input.
	ErrMissingColumn = errors.New("missing column")

	// ErrColumnCollision indicates a derived category name clashes with another column.
	ErrColumnCollision = errors.New("column name collision")

	// ErrTokenCount indicates a packed category value has an unexpected token count.
	ErrTokenCount = errors.New("unexpected category token count")

	// ErrInvalidToken indicates a category token value outside {0,1} in strict mode.
	ErrInvalidToken = errors.New("invalid category token")

	// ErrTableExists indicates the destination table is already present.
	ErrTableExists = errors.New("table already exists")

	// ErrUnknownDialect indicates no storage dialect is registered under a name.
	ErrUnknownDialect = errors.New("unknown storage dialect")

	// ErrInvalidConfig indicates the resolved configuration is unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)
