package offline

import "errors"

// ErrKeyArity is returned when an action is saved or queried with a number of
// discriminator keys the repository was not configured for.
var ErrKeyArity = errors.New("wrong number of action keys")
