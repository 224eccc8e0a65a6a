package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Pallinder/go-randomdata"
	uuid "github.com/satori/go.uuid"
	"github.com/tidwall/sjson"

	"go.llib.dev/lazyseq/pkg/lazyiter"
)

const (
	GenConstant = "constant"
	GenUUID     = "uuid"
	GenName     = "name"
	GenCity     = "city"
	GenEmail    = "email"
	GenNumber   = "number"
	GenPerson   = "person"
)

func (r *run) source(src Source) (*lazyiter.Iterator[string], error) {
	step := src.Step
	if step == 0 {
		step = 1
	}
	switch src.Kind {
	case SourceValues:
		return lazyiter.MapE(lazyiter.OfSlice(src.Values), toJSON), nil
	case SourceRange:
		return lazyiter.Map(lazyiter.RangeBy(src.From, src.To, step), formatInt), nil
	case SourceFrom:
		return lazyiter.Map(lazyiter.FromStep(src.From, step), formatInt), nil
	case SourceUnfold:
		factor := src.Factor
		if factor == 0 {
			factor = 1
		}
		return lazyiter.Map(lazyiter.Unfold(src.From, func(n int64) int64 { return n*factor + step }), formatInt), nil
	case SourceGen:
		return r.gen(src)
	case SourceSQL:
		return r.sql(src.Query)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
	}
}

func (r *run) gen(src Source) (*lazyiter.Iterator[string], error) {
	switch src.Generator {
	case GenConstant:
		value, err := toJSON(src.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, err.Error())
		}
		return lazyiter.Gen(func() string { return value }), nil
	case GenUUID:
		return lazyiter.Gen(func() string { return strconv.Quote(uuid.NewV4().String()) }), nil
	case GenName:
		return lazyiter.Gen(func() string { return strconv.Quote(randomdata.SillyName()) }), nil
	case GenCity:
		return lazyiter.Gen(func() string { return strconv.Quote(randomdata.City()) }), nil
	case GenEmail:
		return lazyiter.Gen(func() string { return strconv.Quote(randomdata.Email()) }), nil
	case GenNumber:
		return lazyiter.Gen(func() string { return strconv.Itoa(randomdata.Number(int(src.From), int(src.To))) }), nil
	case GenPerson:
		return lazyiter.GenE(randomPerson), nil
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", ErrInvalidDefinition, src.Generator)
	}
}

func randomPerson() (string, error) {
	person := `{}`
	for _, field := range []struct {
		path  string
		value any
	}{
		{path: "id", value: uuid.NewV4().String()},
		{path: "name", value: randomdata.SillyName()},
		{path: "email", value: randomdata.Email()},
		{path: "city", value: randomdata.City()},
		{path: "age", value: randomdata.Number(18, 100)},
	} {
		var err error
		person, err = sjson.Set(person, field.path, field.value)
		if err != nil {
			return "", err
		}
	}
	return person, nil
}

// sql runs the query on the first pull, and yields every row as a JSON object keyed by column name.
func (r *run) sql(query string) (*lazyiter.Iterator[string], error) {
	if r.DB == nil {
		return nil, fmt.Errorf("%w: sql source requires a database connection", ErrInvalidDefinition)
	}
	return lazyiter.FlatMap(lazyiter.Of(query), func(query string) *lazyiter.Iterator[string] {
		r.Logger.Debug(r.ctx, "executing sql source query")
		rows, err := r.DB.QueryContext(r.ctx, query)
		if err != nil {
			return failed[string](err)
		}
		columns, err := rows.Columns()
		if err != nil {
			_ = rows.Close()
			return failed[string](err)
		}
		return lazyiter.FromRows(rows, rowMapper(columns))
	}), nil
}

func rowMapper(columns []string) lazyiter.RowMapper[string] {
	return lazyiter.RowMapperFunc[string](func(s lazyiter.Scanner) (string, error) {
		var (
			values = make([]any, len(columns))
			ptrs   = make([]any, len(columns))
		)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := s.Scan(ptrs...); err != nil {
			return "", err
		}
		row := `{}`
		for i, column := range columns {
			value := values[i]
			if bs, ok := value.([]byte); ok {
				value = string(bs)
			}
			var err error
			row, err = sjson.Set(row, escapePath(column), value)
			if err != nil {
				return "", err
			}
		}
		return row, nil
	})
}

var pathEscaper = strings.NewReplacer(`.`, `\.`, `*`, `\*`, `?`, `\?`)

func escapePath(key string) string { return pathEscaper.Replace(key) }

func failed[T any](err error) *lazyiter.Iterator[T] {
	return lazyiter.GenE(func() (T, error) {
		var zero T
		return zero, err
	})
}

func toJSON(v any) (string, error) {
	bs, err := json.Marshal(v)
	return string(bs), err
}

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }
