package deferred

import (
	"errors"
)

// ErrNetworkUnavailable is returned by Defer while no lookup network is bound.
// The block is not registered in that case.
var ErrNetworkUnavailable = errors.New("lookup network unavailable")
