package domain

import "errors"

// ErrStoreUnavailable marks persistence failures. Callers must not treat it
// as "not posted": publishing on a blind store risks duplicates, so the safe
// reaction during selection is to skip the tick.
var ErrStoreUnavailable = errors.New("news store unavailable")
