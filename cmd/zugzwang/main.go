package main

import (
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/zugzwang-chess/zugzwang/internal/evalbuilder"
	"github.com/zugzwang-chess/zugzwang/pkg/engine"
	"github.com/zugzwang-chess/zugzwang/pkg/uci"
)

const (
	name   = "Zugzwang"
	author = "Zugzwang developers"
)

var (
	versionName   = "dev"
	buildDate     = "(null)"
	gitRevision   = "(null)"
	flgEval       string
	flgCPUProfile string
	flgLogLevel   string
)

func main() {
	flag.StringVar(&flgEval, "eval", "", "specifies evaluation function (classic, material)")
	flag.StringVar(&flgCPUProfile, "cpuprofile", "", "writes a cpu profile to this directory")
	flag.StringVar(&flgLogLevel, "loglevel", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	var level, err = zerolog.ParseLevel(flgLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	if flgCPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(flgCPUProfile), profile.Quiet).Stop()
	}

	logger.Info().
		Str("version", versionName).
		Str("buildDate", buildDate).
		Str("gitRevision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("numCPU", runtime.NumCPU()).
		Msg(name)

	evalBuilder, err := evalbuilder.Get(flgEval)
	if err != nil {
		logger.Fatal().Err(err).Msg("eval-builder")
	}
	var eng = engine.NewEngine(evalBuilder)
	eng.Logger = logger

	var multiPV = 1
	var moveOverhead = int(eng.Options.MoveOverhead / time.Millisecond)
	var ponder bool
	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
			&uci.IntOption{Name: "MultiPV", Min: 1, Max: 256, Value: &multiPV,
				OnChange: func(v int) { eng.Options.MultiPV = v > 1 }},
			&uci.IntOption{Name: "MoveOverhead", Min: 0, Max: 5000, Value: &moveOverhead,
				OnChange: func(v int) { eng.Options.MoveOverhead = time.Duration(v) * time.Millisecond }},
			&uci.BoolOption{Name: "Ponder", Value: &ponder},
			&uci.BoolOption{Name: "Diagnostics", Value: &eng.Options.Diagnostics},
		},
		logger, os.Stdout,
	)
	protocol.Run(os.Stdin)
}
