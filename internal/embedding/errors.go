package embedding

import "errors"

// ErrBackendUnavailable indicates the embedding backend could not be
// reached or refused the request. Callers must treat this as fatal for
// the operation; zero vectors are never substituted.
var ErrBackendUnavailable = errors.New("embedding backend unavailable")
