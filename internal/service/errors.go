package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrValidationNoModulesProvided = errors.New("no course modules provided")
	ErrValidationNoEntityID        = errors.New("no entity ID was given")
)
