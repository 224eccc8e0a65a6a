package lazyiter

import "go.llib.dev/frameless/pkg/errorkit"

const (
	// ErrExhausted is returned when a value is pulled from an Iterator that has no next element.
	// Pulling again keeps returning ErrExhausted.
	ErrExhausted errorkit.Error = "lazyiter: no next element"
	// ErrTypeMismatch is returned by Flatten when the pulled element is not a nested sequence.
	ErrTypeMismatch errorkit.Error = "lazyiter: element is not a nested sequence"
	// ErrEmptyReduction is returned by Reduce when the Iterator has no elements.
	ErrEmptyReduction errorkit.Error = "lazyiter: reduce of an empty sequence"
	// ErrUnsupported is returned by the encoding methods of an Iterator.
	ErrUnsupported errorkit.Error = "lazyiter: unsupported operation on a lazy sequence"
	// ErrMoved is returned when an Iterator is used after another Iterator took ownership of it.
	ErrMoved errorkit.Error = "lazyiter: iterator was moved into another iterator"
	// ErrInvalidArgument is returned by sources that can never produce a value with the given arguments.
	ErrInvalidArgument errorkit.Error = "lazyiter: invalid argument"
)

// Break can be returned from a ForEach callback to stop the iteration without an error.
const Break errorkit.Error = `lazyiter:break`
