// Package spill materializes lazy sequences into a local bolt database,
// and reads them back as lazy sequences.
//
// Spilling is useful when a sequence is too expensive to compute twice,
// or when it has to outlive the process that produced it.
package spill

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/boltdb/bolt"
	uuid "github.com/satori/go.uuid"
	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/lazyseq/pkg/lazyiter"
)

const ErrRefNotFound errorkit.Error = "spill: reference not found"

// Ref identifies a persisted sequence in a Store.
type Ref string

// NewStore opens, or creates, the bolt database file at path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Store keeps every persisted sequence in its own bucket.
//
// No transaction is held while an Iterator is pulled,
// so a sequence read from a Store can be persisted into the same Store.
type Store struct {
	DB *bolt.DB
}

// Close the Store database and release the file lock
func (s *Store) Close() error {
	return s.DB.Close()
}

const chunkSize = 64

// Persist drains the Iterator into a new bucket of the Store.
// The elements are gob encoded, and keep their order.
// The Iterator is pulled outside of the write transactions, one chunk at a time.
// When the Iterator or the context fails, the partially written bucket is dropped.
func Persist[T any](ctx context.Context, s *Store, it *lazyiter.Iterator[T]) (_ Ref, rErr error) {
	if err := ctx.Err(); err != nil {
		return "", errorkit.Merge(err, it.Close())
	}
	ref := Ref(uuid.NewV4().String())
	err := s.DB.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(ref))
		return err
	})
	if err != nil {
		return "", errorkit.Merge(err, it.Close())
	}
	defer func() {
		if rErr != nil {
			rErr = errorkit.Merge(rErr, s.Drop(ref))
		}
	}()
	err = lazyiter.ForEach(lazyiter.Grouped(it, chunkSize), func(chunk []T) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.DB.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket([]byte(ref))
			if bucket == nil {
				return fmt.Errorf("%w: %s", ErrRefNotFound, ref)
			}
			for _, v := range chunk {
				seq, err := bucket.NextSequence()
				if err != nil {
					return err
				}
				value, err := encode(v)
				if err != nil {
					return err
				}
				if err := bucket.Put(uintToBytes(seq), value); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return ref, nil
}

// Open returns a lazy Iterator over a persisted sequence.
// The elements are read in chunks, each chunk in its own read transaction,
// starting with the first pull.
func Open[T any](s *Store, ref Ref) *lazyiter.Iterator[T] {
	return lazyiter.New[T](&cursorSource[T]{
		db: s.DB,
		bucket: func(tx *bolt.Tx) (*bolt.Cursor, error) {
			bucket := tx.Bucket([]byte(ref))
			if bucket == nil {
				return nil, fmt.Errorf("%w: %s", ErrRefNotFound, ref)
			}
			return bucket.Cursor(), nil
		},
		decode: func(_, value []byte) (T, error) {
			var v T
			err := decode(value, &v)
			return v, err
		},
	})
}

// Refs lists the persisted sequences of the Store.
func (s *Store) Refs() *lazyiter.Iterator[Ref] {
	return lazyiter.New[Ref](&cursorSource[Ref]{
		db: s.DB,
		bucket: func(tx *bolt.Tx) (*bolt.Cursor, error) {
			return tx.Cursor(), nil
		},
		decode: func(key, _ []byte) (Ref, error) {
			return Ref(key), nil
		},
	})
}

// Drop deletes a persisted sequence.
func (s *Store) Drop(ref Ref) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(ref))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("%w: %s", ErrRefNotFound, ref)
		}
		return err
	})
}

// cursorSource reads the keys in order, a chunk per read transaction.
// last is the key of the last read entry, nil before the first chunk.
type cursorSource[T any] struct {
	db     *bolt.DB
	bucket func(tx *bolt.Tx) (*bolt.Cursor, error)
	decode func(key, value []byte) (T, error)

	last  []byte
	chunk []T
	done  bool
}

func (s *cursorSource[T]) Pull() (lazyiter.Step[T], error) {
	if len(s.chunk) == 0 && !s.done {
		if err := s.db.View(s.read); err != nil {
			return lazyiter.Done[T](), err
		}
	}
	if len(s.chunk) == 0 {
		return lazyiter.Done[T](), nil
	}
	v := s.chunk[0]
	s.chunk = s.chunk[1:]
	return lazyiter.Yield[T](v, s), nil
}

func (s *cursorSource[T]) read(tx *bolt.Tx) error {
	c, err := s.bucket(tx)
	if err != nil {
		return err
	}
	var key, value []byte
	if s.last == nil {
		key, value = c.First()
	} else {
		key, value = c.Seek(s.last)
		if key != nil && bytes.Equal(key, s.last) {
			key, value = c.Next()
		}
	}
	for ; key != nil && len(s.chunk) < chunkSize; key, value = c.Next() {
		v, err := s.decode(key, value)
		if err != nil {
			return err
		}
		s.chunk = append(s.chunk, v)
		s.last = append(s.last[:0], key...)
	}
	if key == nil {
		s.done = true
	}
	return nil
}

// uintToBytes returns an 8-byte big endian representation of v.
func uintToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func encode(v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, ptr any) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(ptr)
}
