package bibliocommons

import (
	stdErrors "errors"
	"fmt"
)

// QueryTooLargeError reports a built query exceeding the catalog's character
// ceiling. Batches are sized to stay well under the limit, so hitting this
// means the batching upstream is broken, not that the network misbehaved.
type QueryTooLargeError struct {
	Length int
	Limit  int
}

func (e *QueryTooLargeError) Error() string {
	return fmt.Sprintf("catalog query is %d characters, the limit is %d", e.Length, e.Limit)
}

// IsQueryTooLargeError reports whether err is a QueryTooLargeError (even when wrapped).
func IsQueryTooLargeError(err error) bool {
	var queryErr *QueryTooLargeError
	return stdErrors.As(err, &queryErr)
}

// UnstableAPIError indicates a failed assumption about the undocumented
// catalog API: a link scheme, feed shape, or record fragment no longer
// matches what the parser was built against.
type UnstableAPIError struct {
	Reason string
}

func (e *UnstableAPIError) Error() string {
	return e.Reason
}

// NewUnstableAPIError creates an UnstableAPIError with the given reason.
func NewUnstableAPIError(reason string) *UnstableAPIError {
	return &UnstableAPIError{Reason: reason}
}

// IsUnstableAPIError reports whether err is an UnstableAPIError (even when wrapped).
func IsUnstableAPIError(err error) bool {
	var apiErr *UnstableAPIError
	return stdErrors.As(err, &apiErr)
}
