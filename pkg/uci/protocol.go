package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
	PonderHit()
}

type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	logger       zerolog.Logger
	out          io.Writer
	tables       *common.Tables
	board        *common.Board
	thinking     bool
	engineOutput chan searchOutput
	cancel       context.CancelFunc
}

type searchOutput struct {
	info  common.SearchInfo
	final bool
}

func New(name, author, version string, engine Engine, options []Option,
	logger zerolog.Logger, out io.Writer) *Protocol {
	var tables = common.NewTables()
	return &Protocol{
		name:    name,
		author:  author,
		version: version,
		engine:  engine,
		options: options,
		logger:  logger,
		out:     out,
		tables:  tables,
		board:   common.NewInitialBoard(tables),
	}
}

// Run serves commands from in until quit or end of input. A running
// search is stopped and its bestmove printed before Run returns.
func (uci *Protocol) Run(in io.Reader) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		readCommands(in, commands)
	}()

	var lastInfo common.SearchInfo
	for {
		select {
		case output, ok := <-uci.engineOutput:
			if !ok {
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
				continue
			}
			if output.final {
				uci.printBestMove(output.info, lastInfo)
				lastInfo = common.SearchInfo{}
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
			} else {
				uci.printInfo(output.info)
				lastInfo = output.info
			}
		case commandLine, ok := <-commands:
			if !ok {
				uci.finish()
				return
			}
			if err := uci.handle(commandLine); err != nil {
				uci.logger.Warn().Err(err).Str("command", commandLine).Msg("command-failed")
			}
		}
	}
}

// finish stops a running search and prints its result.
func (uci *Protocol) finish() {
	if !uci.thinking {
		return
	}
	uci.cancel()
	for output := range uci.engineOutput {
		if output.final {
			uci.printBestMove(output.info, common.SearchInfo{})
		}
	}
	uci.thinking = false
}

func readCommands(in io.Reader, commands chan<- string) {
	var scanner = bufio.NewScanner(in)
	for scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "quit" {
			return
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		switch commandName {
		case "stop":
			uci.cancel()
			return nil
		case "ponderhit":
			uci.engine.PonderHit()
			return nil
		case "isready":
			fmt.Fprintln(uci.out, "readyok")
			return nil
		}
		return errors.New("search still run")
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "stop", "ponderhit":
		return nil
	}

	if h == nil {
		return errors.Errorf("command not found %q", commandName)
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Fprintf(uci.out, "id name %s %s\n", uci.name, uci.version)
	fmt.Fprintf(uci.out, "id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Fprintln(uci.out, option.UciString())
	}
	fmt.Fprintln(uci.out, "uciok")
	return nil
}

// setOptionCommand parses "name <words> [value <words>]".
func (uci *Protocol) setOptionCommand(fields []string) error {
	var nameIndex = findIndexString(fields, "name")
	if nameIndex != 0 {
		return errors.New("invalid setoption arguments")
	}
	var valueIndex = findIndexString(fields, "value")
	var name, value string
	if valueIndex == -1 {
		name = strings.Join(fields[1:], " ")
	} else {
		name = strings.Join(fields[1:valueIndex], " ")
		value = strings.Join(fields[valueIndex+1:], " ")
	}
	for _, option := range uci.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return errors.Errorf("unhandled option %q", name)
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.engine.Prepare()
	fmt.Fprintln(uci.out, "readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("empty position command")
	}
	var token = fields[0]
	var fen string
	var movesIndex = findIndexString(fields, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(fields[1:], " ")
		} else {
			fen = strings.Join(fields[1:movesIndex], " ")
		}
	} else {
		return errors.Errorf("unknown position command %q", token)
	}
	var b, err = common.NewBoardFromFEN(uci.tables, fen)
	if err != nil {
		return err
	}
	if movesIndex >= 0 {
		if err := b.ApplyMoves(fields[movesIndex+1:]); err != nil {
			return err
		}
	}
	uci.board = b
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	var limits, err = parseLimits(fields)
	if err != nil {
		return err
	}
	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.thinking = true
	var output = make(chan searchOutput, 3)
	uci.engineOutput = output
	var board = uci.board.Clone()
	go func() {
		defer close(output)
		defer cancel()
		var searchResult = uci.engine.Search(ctx, common.SearchParams{
			Board:  board,
			Limits: limits,
			Progress: func(si common.SearchInfo) {
				select {
				case output <- searchOutput{info: si}:
				default:
				}
			},
		})
		output <- searchOutput{info: searchResult, final: true}
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func (uci *Protocol) printInfo(si common.SearchInfo) {
	if len(si.Lines) > 1 {
		for i, line := range si.Lines {
			fmt.Fprintln(uci.out, searchInfoToUci(si, i+1, line))
		}
		return
	}
	fmt.Fprintln(uci.out, searchInfoToUci(si, 0, common.PVLine{Score: si.Score, Moves: si.MainLine}))
}

// printBestMove falls back to the last reported line when the final result
// carries no principal variation.
func (uci *Protocol) printBestMove(result, lastInfo common.SearchInfo) {
	var line = result.MainLine
	if len(line) == 0 {
		line = lastInfo.MainLine
	}
	switch {
	case len(line) == 0:
		fmt.Fprintln(uci.out, "bestmove 0000")
	case len(line) == 1:
		fmt.Fprintf(uci.out, "bestmove %v\n", line[0])
	default:
		fmt.Fprintf(uci.out, "bestmove %v ponder %v\n", line[0], line[1])
	}
}

func searchInfoToUci(si common.SearchInfo, multiPV int, line common.PVLine) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v seldepth %v", si.Depth, si.Stats.MaxPly)
	if multiPV > 0 {
		fmt.Fprintf(sb, " multipv %v", multiPV)
	}
	if line.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", line.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", line.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v hashfull %v", si.Nodes, timeMs, nps, si.Hashfull)
	if len(line.Moves) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range line.Moves {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

var goKeywords = []string{"ponder", "wtime", "btime", "winc", "binc", "movestogo",
	"depth", "nodes", "mate", "movetime", "infinite", "searchmoves"}

func parseLimits(args []string) (result common.LimitsType, err error) {
	// values below min are raised to it, so a flagged clock still bounds the search
	var intArg = func(i int, value *int, min int) error {
		if i+1 >= len(args) {
			return errors.Errorf("go %v: missing value", args[i])
		}
		var v, err = strconv.Atoi(args[i+1])
		if err != nil {
			return errors.Wrapf(err, "go %v", args[i])
		}
		*value = common.Max(v, min)
		return nil
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "wtime":
			err = intArg(i, &result.WhiteTime, 1)
			i++
		case "btime":
			err = intArg(i, &result.BlackTime, 1)
			i++
		case "winc":
			err = intArg(i, &result.WhiteIncrement, 0)
			i++
		case "binc":
			err = intArg(i, &result.BlackIncrement, 0)
			i++
		case "movestogo":
			err = intArg(i, &result.MovesToGo, 1)
			i++
		case "depth":
			err = intArg(i, &result.Depth, 1)
			i++
		case "nodes":
			err = intArg(i, &result.Nodes, 1)
			i++
		case "movetime":
			err = intArg(i, &result.MoveTime, 1)
			i++
		case "infinite":
			result.Infinite = true
		case "searchmoves":
			for i+1 < len(args) && findIndexString(goKeywords, args[i+1]) == -1 {
				result.SearchMoves = append(result.SearchMoves, strings.ToLower(args[i+1]))
				i++
			}
		}
		if err != nil {
			return
		}
	}
	return
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
