// Package lazyiter provides a lazy, single-pass sequence handle.
//
// # Summary
//
// An Iterator produces its elements on demand.
// Nothing is evaluated when an Iterator is constructed or transformed,
// the values are computed one by one as the consumer pulls them.
// Because of this, an Iterator can represent an infinite sequence,
// such as a counter or a generator, as long as the consumer bounds it with Take or a similar operation.
//
// Data flows in one direction:
//
//	construction (Of, OfSlice, From, Gen, Unfold, ...)
//	  -> transformation (Take, Filter, Map, Flatten, ...)
//	  -> consumption (Reduce, GroupBy, Collect, ...)
//
// Consumption is the only place where laziness is resolved into ordinary Go values.
//
// # Ownership
//
// An Iterator is single-use and single-consumer.
// Every transformation takes over the state of its input handle,
// and the input handle is left in a moved state where every pull fails with ErrMoved.
//
//	it := lazyiter.From(1)
//	first3 := it.Take(3) // it is moved into first3
//	_, err := it.Pull()  // errors.Is(err, lazyiter.ErrMoved)
//
// # Identity
//
// An Iterator has no value based equality, hashing or serialization,
// since each of those would require evaluating the whole, possibly infinite, sequence.
// Iterator values are not comparable, pointers to them compare by reference,
// and every encoding method fails with ErrUnsupported.
// To compare the content of two sequences, materialize them first with Collect.
//
// # Resources
//
// https://en.wikipedia.org/wiki/Iterator_pattern
// https://en.wikipedia.org/wiki/Lazy_evaluation
package lazyiter
