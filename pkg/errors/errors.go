package errors

import "errors"

// ErrOptimisticLock the row was modified by a concurrent request
var ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")
