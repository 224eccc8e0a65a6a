package lazyiter

import "io"

// Rows is the subset of *sql.Rows that FromRows depends on.
type Rows interface {
	io.Closer
	Next() bool
	Err() error
	Scan(dest ...any) error
}

// Scanner copies the columns of the current row into the values pointed at by dest.
type Scanner interface {
	Scan(dest ...any) error
}

// RowMapper turns the current row of a result set into a value.
type RowMapper[T any] interface {
	Map(s Scanner) (T, error)
}

// RowMapperFunc enables a plain function to act as a RowMapper.
type RowMapperFunc[T any] func(Scanner) (T, error)

func (fn RowMapperFunc[T]) Map(s Scanner) (T, error) { return fn(s) }

// FromRows allow you to use the same lazy pipeline with sql.Rows structure.
// The rows are read one at a time, only when an element is pulled,
// and they are closed when the Iterator is closed or exhausted.
// The error of the rows surfaces at the pull that reaches the end of the result set.
//
//	rows, err := db.QueryContext(ctx, `SELECT id FROM users`)
//	if err != nil {
//		return err
//	}
//	ids := lazyiter.FromRows(rows, lazyiter.RowMapperFunc[int](func(s lazyiter.Scanner) (int, error) {
//		var id int
//		return id, s.Scan(&id)
//	}))
func FromRows[T any](rows Rows, mapper RowMapper[T]) *Iterator[T] {
	if rows == nil {
		return Empty[T]()
	}
	return New[T](rowsSource[T]{rows: rows, mapper: mapper}, OnClose(rows.Close))
}

type rowsSource[T any] struct {
	rows   Rows
	mapper RowMapper[T]
}

func (s rowsSource[T]) Pull() (Step[T], error) {
	if !s.rows.Next() {
		return Done[T](), s.rows.Err()
	}
	v, err := s.mapper.Map(s.rows)
	if err != nil {
		return Done[T](), err
	}
	return Yield[T](v, s), nil
}
