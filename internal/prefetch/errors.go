package prefetch

import "errors"

var ErrNoHandler = errors.New("no prefetch handler for module type")
