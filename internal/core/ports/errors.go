package ports

import "errors"

// ErrConditionNotMet is returned by conditional (compare-and-swap) updates when
// no document satisfied every precondition. Services re-read to classify it.
var ErrConditionNotMet = errors.New("conditional update matched no document")
