package main

import (
	"context"
	"flag"

	"github.com/zugzwang-chess/zugzwang/internal/tactic"
)

func benchmarkHandler(args []string) error {
	var (
		path     = "tests.epd"
		evalName = ""
		depth    = 10
	)
	var flagset = flag.NewFlagSet("bench", flag.ExitOnError)
	flagset.StringVar(&path, "testpath", path, "epd file")
	flagset.StringVar(&evalName, "eval", evalName, "evaluation function")
	flagset.IntVar(&depth, "depth", depth, "search depth per position")
	flagset.Parse(args)

	var items, err = loadSuite(path)
	if err != nil {
		return err
	}
	eng, err := newEngine(evalName, 16, 1)
	if err != nil {
		return err
	}
	printResult(tactic.Benchmark(context.Background(), items, eng, depth))
	return nil
}
