package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zugzwang-chess/zugzwang/internal/evalbuilder"
	"github.com/zugzwang-chess/zugzwang/internal/tactic"
	"github.com/zugzwang-chess/zugzwang/pkg/common"
	"github.com/zugzwang-chess/zugzwang/pkg/engine"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
	With().Timestamp().Logger()

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("tests")
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tests tactic|bench [flags]")
	}
	switch args[0] {
	case "tactic":
		return tacticHandler(args[1:])
	case "bench":
		return benchmarkHandler(args[1:])
	}
	return errors.Errorf("command not found %q", args[0])
}

func newEngine(evalName string, hash, threads int) (*engine.Engine, error) {
	var evalBuilder, err = evalbuilder.Get(evalName)
	if err != nil {
		return nil, err
	}
	var eng = engine.NewEngine(evalBuilder)
	eng.Options.Hash = hash
	eng.Options.Threads = threads
	eng.Logger = logger.Level(zerolog.WarnLevel)
	eng.Prepare()
	return eng, nil
}

func loadSuite(path string) ([]tactic.Item, error) {
	var file, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return tactic.LoadEPD(common.NewTables(), file, logger)
}

func printResult(r tactic.Result) {
	fmt.Println("Solved", r.Solved, "of", r.Total)
	fmt.Println("Time", r.Elapsed)
	fmt.Println("Nodes", r.Nodes)
	fmt.Println("kNPS", r.NodesPerSecond()/1000)
}
