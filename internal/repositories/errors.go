package repositories

import "errors"

// ErrNotFound is returned when a targeted row does not exist. Handlers map it
// to 404; idempotent operations (subscribe/unsubscribe, dismiss-all) never
// return it.
var ErrNotFound = errors.New("record not found")
