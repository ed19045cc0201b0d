package domain

import "errors"

var (
	ErrInvalidParameters = errors.New("invalid simulation parameters")
	ErrUnknownScenario   = errors.New("unknown scenario")
	ErrInfeasible        = errors.New("infeasible input")
)
