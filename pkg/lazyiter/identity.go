package lazyiter

import (
	"fmt"
	"reflect"
)

// An Iterator has no value identity.
// Two handles are the same only when they are the same pointer,
// comparing, hashing or serializing the elements would consume the sequence.

func (it *Iterator[T]) String() string {
	return fmt.Sprintf("lazyiter.Iterator[%s]@%p", reflect.TypeFor[T](), it)
}

func (it *Iterator[T]) GoString() string { return it.String() }

// Value receivers make a copied Iterator, or one held by value, unencodable as well.

func (Iterator[T]) MarshalJSON() ([]byte, error) { return nil, ErrUnsupported }

func (*Iterator[T]) UnmarshalJSON([]byte) error { return ErrUnsupported }

func (Iterator[T]) MarshalText() ([]byte, error) { return nil, ErrUnsupported }

func (*Iterator[T]) UnmarshalText([]byte) error { return ErrUnsupported }

func (Iterator[T]) MarshalBinary() ([]byte, error) { return nil, ErrUnsupported }

func (*Iterator[T]) UnmarshalBinary([]byte) error { return ErrUnsupported }

func (Iterator[T]) GobEncode() ([]byte, error) { return nil, ErrUnsupported }

func (*Iterator[T]) GobDecode([]byte) error { return ErrUnsupported }
