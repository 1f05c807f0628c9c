package syncer

import "errors"

var (
	// ErrRemoteWins rejects an offline action because the server copy changed
	// after the action was recorded. The action is discarded.
	ErrRemoteWins = errors.New("remote data changed, offline changes discarded")

	// ErrInvalidAction rejects an action the server can never accept.
	ErrInvalidAction = errors.New("invalid offline action")

	ErrSyncBlocked   = errors.New("synchronization is blocked for this resource")
	ErrOffline       = errors.New("cannot synchronize while offline")
	ErrWifiOnly      = errors.New("synchronization is restricted to wifi")
	ErrUnknownModule = errors.New("unknown module type")
)
