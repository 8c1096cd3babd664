package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/zugzwang-chess/zugzwang/internal/tactic"
	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

func tacticHandler(args []string) error {
	var (
		path     = "tests.epd"
		evalName = ""
		moveTime = 3 * time.Second
		hash     = 128
		threads  = 1
	)
	var flagset = flag.NewFlagSet("tactic", flag.ExitOnError)
	flagset.StringVar(&path, "testpath", path, "epd file with bm/am operations")
	flagset.StringVar(&evalName, "eval", evalName, "evaluation function")
	flagset.DurationVar(&moveTime, "movetime", moveTime, "time per position")
	flagset.IntVar(&hash, "hash", hash, "transposition table size in MiB")
	flagset.IntVar(&threads, "threads", threads, "search threads")
	flagset.Parse(args)

	logger.Info().
		Str("path", path).
		Str("eval", evalName).
		Dur("moveTime", moveTime).
		Msg("tactic-started")

	var items, err = loadSuite(path)
	if err != nil {
		return err
	}
	eng, err := newEngine(evalName, hash, threads)
	if err != nil {
		return err
	}
	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var result = tactic.Solve(ctx, items, eng,
		common.LimitsType{MoveTime: int(moveTime / time.Millisecond)}, logger)
	printResult(result)
	return nil
}
