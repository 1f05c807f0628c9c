package site

import "errors"

var (
	ErrInvalidSite   = errors.New("site needs an id, a url and a token")
	ErrUnknownSite   = errors.New("unknown site")
	ErrNoCurrentSite = errors.New("no site is logged in")
)
