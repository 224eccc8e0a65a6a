// Command seqctl evaluates lazy sequence pipelines described in YAML.
//
//	seqctl run pipeline.yaml
//	seqctl schema
package main

import (
	"context"
	"os"

	_ "github.com/lib/pq"
	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/env"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/lazyseq/pkg/pipeline"
)

// Config is loaded from the environment.
// The spill store and the SQL source are optional, they are available only when their variables are set.
type Config struct {
	LogLevel  string `env:"SEQCTL_LOG_LEVEL" default:"info"`
	SpillPath string `env:"SEQCTL_SPILL_PATH"`
	SQLDriver string `env:"SEQCTL_SQL_DRIVER" default:"postgres"`
	SQLDSN    string `env:"SEQCTL_SQL_DSN"`
}

func main() {
	ctx := context.Background()
	logger := &logging.Logger{Out: os.Stderr}
	var cfg Config
	if err := env.Load(&cfg); err != nil {
		logger.Fatal(ctx, "failed to load the configuration", logging.ErrField(err))
		os.Exit(cli.ExitCodeError)
	}
	logger.Level = logging.Level(cfg.LogLevel)
	mux := NewMux(cfg, logger)
	cli.Main(ctx, mux)
}

func NewMux(cfg Config, logger *logging.Logger) *cli.Mux {
	var mux cli.Mux
	mux.Handle("run", RunCommand{Runner: func() (*pipeline.Runner, func() error, error) {
		return NewRunner(cfg, logger)
	}})
	mux.Handle("schema", SchemaCommand{})
	return &mux
}
