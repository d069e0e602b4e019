package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrRegistryUnavailable   = errors.New("registry unavailable")
	ErrDependencyNotReady    = errors.New("dependency not ready")
	ErrSchemaAmbiguous       = errors.New("schema ambiguous")
	ErrCollectedOutsideSpace = errors.New("collected combination outside generated space")
)
