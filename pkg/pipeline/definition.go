// Package pipeline evaluates declarative sequence pipelines.
//
// A pipeline Definition names a source of JSON elements, a list of lazy operations on them,
// and a sink that consumes the result.
// Definitions are written in YAML:
//
//	source:
//	  kind: from
//	  from: 1
//	operations:
//	  - op: filter
//	    path: "@this"
//	  - op: take
//	    n: 3
//	sink:
//	  kind: reduce
//	  reducer: sum
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"go.llib.dev/frameless/pkg/errorkit"
	"gopkg.in/yaml.v3"
)

const (
	ErrInvalidDefinition errorkit.Error = "pipeline: invalid definition"
	ErrUnknownSource     errorkit.Error = "pipeline: unknown source"
	ErrUnknownOperation  errorkit.Error = "pipeline: unknown operation"
	ErrUnknownSink       errorkit.Error = "pipeline: unknown sink"
)

// Definition is a complete pipeline: a source, the operations applied to its elements in order, and a sink.
type Definition struct {
	Name       string      `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"description=Name of the pipeline used in the logs"`
	Source     Source      `yaml:"source" json:"source"`
	Operations []Operation `yaml:"operations,omitempty" json:"operations,omitempty"`
	Sink       Sink        `yaml:"sink" json:"sink"`
}

const (
	SourceValues = "values"
	SourceRange  = "range"
	SourceFrom   = "from"
	SourceGen    = "gen"
	SourceUnfold = "unfold"
	SourceSQL    = "sql"
)

// Source describes where the elements of a pipeline come from.
// Every element is a JSON value.
type Source struct {
	Kind string `yaml:"kind" json:"kind" jsonschema:"enum=values,enum=range,enum=from,enum=gen,enum=unfold,enum=sql"`
	// Values are the elements of a values source.
	Values []any `yaml:"values,omitempty" json:"values,omitempty"`
	// From is the first number of range, from and unfold sources, and the lower bound of the number generator.
	From int64 `yaml:"from,omitempty" json:"from,omitempty"`
	// To is the exclusive end of a range source, and the upper bound of the number generator.
	To int64 `yaml:"to,omitempty" json:"to,omitempty"`
	// Step is added to every number, it defaults to 1.
	Step int64 `yaml:"step,omitempty" json:"step,omitempty"`
	// Factor multiplies the previous element of an unfold source before Step is added.
	Factor int64 `yaml:"factor,omitempty" json:"factor,omitempty"`
	// Generator names the supplier of a gen source.
	Generator string `yaml:"generator,omitempty" json:"generator,omitempty" jsonschema:"enum=constant,enum=uuid,enum=name,enum=city,enum=email,enum=number,enum=person"`
	// Value is the element of the constant generator.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`
	// Query is executed by a sql source, every row becomes a JSON object.
	Query string `yaml:"query,omitempty" json:"query,omitempty"`
}

const (
	OpTake     = "take"
	OpDrop     = "drop"
	OpFilter   = "filter"
	OpMap      = "map"
	OpSet      = "set"
	OpFlatten  = "flatten"
	OpDistinct = "distinct"
	OpSpill    = "spill"
)

// Operation is a lazy transformation step of a pipeline.
// Paths use the gjson path syntax for reading, and the sjson path syntax for set.
type Operation struct {
	Op    string `yaml:"op" json:"op" jsonschema:"enum=take,enum=drop,enum=filter,enum=map,enum=set,enum=flatten,enum=distinct,enum=spill"`
	N     int    `yaml:"n,omitempty" json:"n,omitempty"`
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
}

const (
	SinkCollect = "collect"
	SinkCount   = "count"
	SinkReduce  = "reduce"
	SinkGroupBy = "group_by"

	ReducerSum    = "sum"
	ReducerConcat = "concat"
)

// Sink consumes the elements of a pipeline into a single JSON result.
type Sink struct {
	Kind    string `yaml:"kind" json:"kind" jsonschema:"enum=collect,enum=count,enum=reduce,enum=group_by"`
	Reducer string `yaml:"reducer,omitempty" json:"reducer,omitempty" jsonschema:"enum=sum,enum=concat"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Parse reads a YAML pipeline definition.
// Unknown fields are rejected.
func Parse(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return def, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return def, fmt.Errorf("%w: %s", ErrInvalidDefinition, err.Error())
	}
	return def, def.Validate()
}

// Validate reports the first invalid part of the Definition.
// The returned error wraps ErrInvalidDefinition, or one of the unknown kind errors.
func (def Definition) Validate() error {
	if err := def.Source.Validate(); err != nil {
		return err
	}
	for i, op := range def.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operations[%d]: %w", i, err)
		}
	}
	return def.Sink.Validate()
}

// Validate checks that the source kind is known and has the parameters it needs.
func (src Source) Validate() error {
	switch src.Kind {
	case SourceValues, SourceRange, SourceFrom, SourceUnfold:
		return nil
	case SourceGen:
		switch src.Generator {
		case GenConstant, GenUUID, GenName, GenCity, GenEmail, GenPerson:
			return nil
		case GenNumber:
			if src.To <= src.From {
				return fmt.Errorf("%w: number generator requires from < to", ErrInvalidDefinition)
			}
			return nil
		default:
			return fmt.Errorf("%w: unknown generator %q", ErrInvalidDefinition, src.Generator)
		}
	case SourceSQL:
		if src.Query == "" {
			return fmt.Errorf("%w: sql source requires a query", ErrInvalidDefinition)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
	}
}

// Validate checks that the operation is known and has the parameters it needs.
func (op Operation) Validate() error {
	switch op.Op {
	case OpTake, OpDrop:
		if op.N < 0 {
			return fmt.Errorf("%w: %s requires a non negative n", ErrInvalidDefinition, op.Op)
		}
	case OpFilter, OpMap, OpSet:
		if op.Path == "" {
			return fmt.Errorf("%w: %s requires a path", ErrInvalidDefinition, op.Op)
		}
	case OpFlatten, OpDistinct, OpSpill:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Op)
	}
	return nil
}

// Validate checks that the sink kind is known and has the parameters it needs.
func (s Sink) Validate() error {
	switch s.Kind {
	case SinkCollect, SinkCount:
	case SinkReduce:
		if s.Reducer != ReducerSum && s.Reducer != ReducerConcat {
			return fmt.Errorf("%w: unknown reducer %q", ErrInvalidDefinition, s.Reducer)
		}
	case SinkGroupBy:
		if s.Path == "" {
			return fmt.Errorf("%w: group_by requires a path", ErrInvalidDefinition)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, s.Kind)
	}
	return nil
}

// Schema returns the JSON schema of the Definition format.
func Schema() ([]byte, error) {
	return json.MarshalIndent(jsonschema.Reflect(&Definition{}), "", "  ")
}
