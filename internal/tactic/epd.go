package tactic

import (
	"bufio"
	"io"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

// Item is one test position with the moves that solve it (bm) or that
// must not be played (am).
type Item struct {
	ID         string
	Content    string
	Board      *common.Board
	BestMoves  []common.Move
	AvoidMoves []common.Move
}

// LoadEPD reads one test per line. Lines that fail to parse are logged
// and skipped.
func LoadEPD(tables *common.Tables, r io.Reader, logger zerolog.Logger) ([]Item, error) {
	var result []Item
	var scanner = bufio.NewScanner(r)
	var lineNumber int
	for scanner.Scan() {
		lineNumber++
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var item, err = ParseEPD(tables, line)
		if err != nil {
			logger.Warn().Err(err).Int("line", lineNumber).Msg("epd-skipped")
			continue
		}
		result = append(result, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read epd")
	}
	return result, nil
}

// ParseEPD parses "<placement> <side> <castling> <ep> bm Nf3 Nc3; id "x";".
// Moves are written in SAN and converted to engine moves.
func ParseEPD(tables *common.Tables, s string) (Item, error) {
	var fields = strings.Fields(s)
	if len(fields) < 5 {
		return Item{}, errors.Errorf("short epd %q", s)
	}
	var fen = strings.Join(fields[:4], " ") + " 0 1"
	var b, err = common.NewBoardFromFEN(tables, fen)
	if err != nil {
		return Item{}, err
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return Item{}, errors.Wrapf(err, "epd %q", s)
	}
	var pos = chess.NewGame(opt).Position()

	var item = Item{Content: s, Board: b}
	var rest = strings.Join(fields[4:], " ")
	for _, op := range strings.Split(rest, ";") {
		var operands = strings.Fields(op)
		if len(operands) == 0 {
			continue
		}
		switch operands[0] {
		case "bm", "am":
			var moves, err = decodeSAN(b, pos, operands[1:])
			if err != nil {
				return Item{}, errors.Wrapf(err, "epd %q", s)
			}
			if operands[0] == "bm" {
				item.BestMoves = append(item.BestMoves, moves...)
			} else {
				item.AvoidMoves = append(item.AvoidMoves, moves...)
			}
		case "id":
			item.ID = strings.Trim(strings.Join(operands[1:], " "), `"`)
		}
	}
	if len(item.BestMoves) == 0 && len(item.AvoidMoves) == 0 {
		return Item{}, errors.Errorf("no bm or am in %q", s)
	}
	return item, nil
}

// decodeSAN matches each move against the SAN of every legal move, ignoring
// check and annotation suffixes.
func decodeSAN(b *common.Board, pos *chess.Position, sans []string) ([]common.Move, error) {
	var result []common.Move
	for _, san := range sans {
		var want = strings.TrimRight(san, "+#!?")
		var found *chess.Move
		for _, m := range pos.ValidMoves() {
			if strings.TrimRight(chess.AlgebraicNotation{}.Encode(pos, m), "+#") == want {
				found = m
				break
			}
		}
		if found == nil {
			return nil, errors.Errorf("move %q not legal", san)
		}
		var move, err = b.ParseMove(chess.UCINotation{}.Encode(pos, found))
		if err != nil {
			return nil, err
		}
		result = append(result, move)
	}
	return result, nil
}
