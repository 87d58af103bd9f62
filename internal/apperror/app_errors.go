package apperror

import "errors"

var (
	ErrInvalidMove             = errors.New("invalid move")
	ErrEngineContractViolation = errors.New("engine contract violation")
	ErrScoreboardNotFound      = errors.New("scoreboard not found")
	ErrUnknownEvent            = errors.New("unknown event")
)
