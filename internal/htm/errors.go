package htm

import "errors"

var (
	ErrNoVariables       = errors.New("htm: model declares no variables")
	ErrNoMaterial        = errors.New("htm: no particle material bound")
	ErrNoMixture         = errors.New("htm: no gas mixture bound")
	ErrUnknownVariant    = errors.New("htm: unknown model variant")
	ErrUnknownStateKind  = errors.New("htm: unknown state kind")
	ErrInvalidConditions = errors.New("htm: invalid process conditions")
)
