package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"go.llib.dev/lazyseq/pkg/lazyiter"
)

func (r *run) sink(it *lazyiter.Iterator[string], sink Sink) (json.RawMessage, error) {
	switch sink.Kind {
	case SinkCollect:
		vs, err := lazyiter.Collect(it)
		if err != nil {
			return nil, err
		}
		return jsonArray(vs), nil

	case SinkCount:
		n, err := lazyiter.Count(it)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(strconv.Itoa(n)), nil

	case SinkReduce:
		return reduce(it, sink)

	case SinkGroupBy:
		groups, err := lazyiter.GroupBy(it, func(e string) string {
			return groupKey(gjson.Get(e, sink.Path))
		})
		if err != nil {
			return nil, err
		}
		out := orderedmap.New[string, json.RawMessage]()
		for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, jsonArray(pair.Value))
		}
		return out.MarshalJSON()

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, sink.Kind)
	}
}

func reduce(it *lazyiter.Iterator[string], sink Sink) (json.RawMessage, error) {
	get := func(e string) gjson.Result {
		if sink.Path == "" {
			return gjson.Parse(e)
		}
		return gjson.Get(e, sink.Path)
	}
	switch sink.Reducer {
	case ReducerSum:
		sum, err := lazyiter.Map(it, func(e string) float64 { return get(e).Float() }).
			Reduce(func(a, b float64) float64 { return a + b })
		if err != nil {
			return nil, err
		}
		return json.RawMessage(strconv.FormatFloat(sum, 'f', -1, 64)), nil
	case ReducerConcat:
		text, err := lazyiter.Map(it, func(e string) string { return get(e).String() }).
			Reduce(func(a, b string) string { return a + b })
		if err != nil {
			return nil, err
		}
		return json.Marshal(text)
	default:
		return nil, fmt.Errorf("%w: unknown reducer %q", ErrInvalidDefinition, sink.Reducer)
	}
}

// groupKey is the name of the group in the resulting JSON object.
// Object names are strings in JSON, so values are keyed by their string form:
// the number 1 and the string "1" share a group.
// Elements without the path, and elements where it is null, are grouped under "null".
func groupKey(res gjson.Result) string {
	if !res.Exists() || res.Type == gjson.Null {
		return "null"
	}
	return res.String()
}

func jsonArray(vs []string) json.RawMessage {
	return json.RawMessage("[" + strings.Join(vs, ",") + "]")
}
