package pipeline

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/lazyseq/pkg/lazyiter"
	"go.llib.dev/lazyseq/pkg/spill"
)

func (r *run) operation(it *lazyiter.Iterator[string], op Operation) (*lazyiter.Iterator[string], error) {
	switch op.Op {
	case OpTake:
		return it.Take(op.N), nil
	case OpDrop:
		return it.Drop(op.N), nil
	case OpFilter:
		return it.Filter(matcher(op)), nil
	case OpMap:
		return lazyiter.Map(it, func(e string) string {
			res := gjson.Get(e, op.Path)
			if !res.Exists() {
				return "null"
			}
			return res.Raw
		}), nil
	case OpSet:
		return lazyiter.MapE(it, func(e string) (string, error) {
			return sjson.Set(e, op.Path, op.Value)
		}), nil
	case OpFlatten:
		return lazyiter.Flatten[string](lazyiter.Map(it, jsonArrayElements)), nil
	case OpDistinct:
		return lazyiter.Distinct(it), nil
	case OpSpill:
		return r.spill(it)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Op)
	}
}

// matcher keeps the elements where the value at the path is truthy,
// or when the operation has a value, where it equals to it.
func matcher(op Operation) func(string) bool {
	if op.Value != nil {
		exp, err := toJSON(op.Value)
		expected := gjson.Parse(exp)
		return func(e string) bool {
			res := gjson.Get(e, op.Path)
			return err == nil && res.Exists() &&
				res.Type == expected.Type && res.String() == expected.String()
		}
	}
	return func(e string) bool {
		return truthy(gjson.Get(e, op.Path))
	}
}

func truthy(res gjson.Result) bool {
	switch res.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return res.Num != 0
	case gjson.String:
		return res.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// jsonArrayElements turns a JSON array into the slice of its raw elements.
// Any other JSON value is returned as is, which makes Flatten fail on it.
func jsonArrayElements(e string) any {
	res := gjson.Parse(e)
	if !res.IsArray() {
		return e
	}
	var vs []string
	res.ForEach(func(_, v gjson.Result) bool {
		vs = append(vs, v.Raw)
		return true
	})
	return vs
}

// spill materializes the upstream into the spill store on the first pull,
// then continues with reading it back.
func (r *run) spill(it *lazyiter.Iterator[string]) (*lazyiter.Iterator[string], error) {
	if r.Spill == nil {
		return nil, fmt.Errorf("%w: spill operation requires a spill store", ErrInvalidDefinition)
	}
	return lazyiter.FlatMap(lazyiter.Of(it), func(it *lazyiter.Iterator[string]) *lazyiter.Iterator[string] {
		ref, err := spill.Persist(r.ctx, r.Spill, it)
		if err != nil {
			return failed[string](err)
		}
		r.refs = append(r.refs, ref)
		r.Logger.Debug(r.ctx, "sequence spilled", logging.Field("ref", string(ref)))
		return spill.Open[string](r.Spill, ref)
	}), nil
}
