package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/lazyseq/pkg/pipeline"
	"go.llib.dev/lazyseq/pkg/spill"
)

type RunCommand struct {
	Path string `arg:"0" default:"-" desc:"path of the pipeline definition, - reads it from the standard input"`

	// Runner is called once per run.
	// It returns the pipeline Runner and the function that releases the Runner's resources.
	Runner func() (*pipeline.Runner, func() error, error)
}

func (cmd RunCommand) Summary() string { return "evaluate a pipeline definition" }

func (cmd RunCommand) ServeCLI(w cli.ResponseWriter, r *cli.Request) {
	def, err := cmd.definition(r)
	if err != nil {
		w.ExitCode(cli.ExitCodeBadRequest)
		fmt.Fprintln(w, err.Error())
		return
	}
	out, err := cmd.run(r.Context(), def)
	if err != nil {
		w.ExitCode(cli.ExitCodeError)
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintln(w, string(out))
}

func (cmd RunCommand) definition(r *cli.Request) (pipeline.Definition, error) {
	var in io.Reader
	if cmd.Path == "-" || cmd.Path == "" {
		if r.Body == nil {
			return pipeline.Definition{}, fmt.Errorf("%w: missing pipeline definition", pipeline.ErrInvalidDefinition)
		}
		in = r.Body
	} else {
		bs, err := os.ReadFile(cmd.Path)
		if err != nil {
			return pipeline.Definition{}, err
		}
		in = bytes.NewReader(bs)
	}
	return pipeline.Parse(in)
}

func (cmd RunCommand) run(ctx context.Context, def pipeline.Definition) (_ []byte, rErr error) {
	runner, release, err := cmd.Runner()
	if err != nil {
		return nil, err
	}
	defer func() { rErr = errorkit.Merge(rErr, release()) }()
	return runner.Run(ctx, def)
}

// NewRunner opens the optional resources of the Config for a single pipeline run.
// The spill store and the database are only opened when they are configured.
func NewRunner(cfg Config, logger *logging.Logger) (_ *pipeline.Runner, _ func() error, rErr error) {
	var (
		runner   = &pipeline.Runner{Logger: logger}
		releases []func() error
	)
	release := func() error {
		var errs []error
		for i := len(releases) - 1; 0 <= i; i-- {
			errs = append(errs, releases[i]())
		}
		return errorkit.Merge(errs...)
	}
	defer func() {
		if rErr != nil {
			rErr = errorkit.Merge(rErr, release())
		}
	}()
	if cfg.SpillPath != "" {
		store, err := spill.NewStore(cfg.SpillPath)
		if err != nil {
			return nil, nil, err
		}
		releases = append(releases, store.Close)
		runner.Spill = store
	}
	if cfg.SQLDSN != "" {
		db, err := sql.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, nil, err
		}
		releases = append(releases, db.Close)
		runner.DB = db
	}
	return runner, release, nil
}

type SchemaCommand struct{}

func (cmd SchemaCommand) Summary() string { return "print the JSON schema of pipeline definitions" }

func (cmd SchemaCommand) ServeCLI(w cli.ResponseWriter, r *cli.Request) {
	schema, err := pipeline.Schema()
	if err != nil {
		w.ExitCode(cli.ExitCodeError)
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintln(w, string(schema))
}
