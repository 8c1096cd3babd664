package common

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const pieceLetters = "pnbrqk"

func NewBoardFromFEN(tables *Tables, fen string) (*Board, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return nil, errors.Errorf("parse fen failed %q: too few fields", fen)
	}

	var b = newEmptyBoard(tables)

	var ranks = strings.Split(tokens[0], "/")
	if len(ranks) != 8 {
		return nil, errors.Errorf("parse fen failed %q: want 8 ranks", fen)
	}
	for i, rankText := range ranks {
		var rank = Rank8 - i
		var file = FileA
		for _, ch := range rankText {
			if unicode.IsDigit(ch) {
				file += int(ch - '0')
				continue
			}
			var piece = strings.IndexRune(pieceLetters, unicode.ToLower(ch))
			if piece < 0 || file > FileH {
				return nil, errors.Errorf("parse fen failed %q: bad rank %q", fen, rankText)
			}
			var side = SideBlack
			if unicode.IsUpper(ch) {
				side = SideWhite
			}
			b.addPiece(side, piece+Pawn, MakeSquare(file, rank))
			file++
		}
		if file != FileH+1 {
			return nil, errors.Errorf("parse fen failed %q: bad rank %q", fen, rankText)
		}
	}

	switch tokens[1] {
	case "w":
		b.SideToMove = SideWhite
	case "b":
		b.SideToMove = SideBlack
	default:
		return nil, errors.Errorf("parse fen failed %q: bad side %q", fen, tokens[1])
	}

	if tokens[2] != "-" {
		for _, ch := range tokens[2] {
			switch ch {
			case 'K':
				b.Castling |= WhiteKingSide
			case 'Q':
				b.Castling |= WhiteQueenSide
			case 'k':
				b.Castling |= BlackKingSide
			case 'q':
				b.Castling |= BlackQueenSide
			default:
				return nil, errors.Errorf("parse fen failed %q: bad castling %q", fen, tokens[2])
			}
		}
	}

	var epSquare, err = ParseSquare(tokens[3])
	if err != nil {
		return nil, errors.Wrapf(err, "parse fen failed %q", fen)
	}
	b.EpSquare = epSquare

	if len(tokens) > 4 {
		if b.HalfmoveClock, err = strconv.Atoi(tokens[4]); err != nil {
			return nil, errors.Wrapf(err, "parse fen failed %q", fen)
		}
	}
	if len(tokens) > 5 {
		if b.FullmoveNumber, err = strconv.Atoi(tokens[5]); err != nil {
			return nil, errors.Wrapf(err, "parse fen failed %q", fen)
		}
	}

	if PopCount(b.Pieces[SideWhite][King]) != 1 || PopCount(b.Pieces[SideBlack][King]) != 1 {
		return nil, errors.Errorf("parse fen failed %q: each side needs one king", fen)
	}
	if b.IsInCheck(b.SideToMove ^ 1) {
		return nil, errors.Errorf("parse fen failed %q: side not to move is in check", fen)
	}

	b.Hash, b.PawnHash = b.ComputeHashes()
	return b, nil
}

func (b *Board) FEN() string {
	var sb strings.Builder

	var emptyCount = 0
	for i := 0; i < 64; i++ {
		var sq = FlipSquare(i)
		var piece = b.Squares[sq]
		if piece == Empty {
			emptyCount++
		} else {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			var letter = pieceLetters[piece-Pawn]
			if b.Occupancy[SideWhite]&SquareMask(sq) != 0 {
				letter = byte(unicode.ToUpper(rune(letter)))
			}
			sb.WriteByte(letter)
		}
		if File(sq) == FileH {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			if Rank(sq) != Rank1 {
				sb.WriteString("/")
			}
		}
	}

	if b.SideToMove == SideWhite {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.Castling == 0 {
		sb.WriteString("-")
	} else {
		for i, ch := range "KQkq" {
			if b.Castling&(1<<uint(i)) != 0 {
				sb.WriteRune(ch)
			}
		}
	}

	sb.WriteString(" ")
	sb.WriteString(SquareName(b.EpSquare))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(b.HalfmoveClock))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(b.FullmoveNumber))
	return sb.String()
}

func (b *Board) String() string {
	return b.FEN()
}

// ParseMove finds the legal move written in long algebraic notation.
func (b *Board) ParseMove(lan string) (Move, error) {
	for _, m := range b.GenerateLegalMoves() {
		if strings.EqualFold(m.String(), lan) {
			return m, nil
		}
	}
	return MoveEmpty, errors.Errorf("parse move failed %q in %q", lan, b.FEN())
}

// ApplyMoves plays a sequence of long algebraic moves, keeping them on the undo stack.
func (b *Board) ApplyMoves(moves []string) error {
	for _, lan := range moves {
		var m, err = b.ParseMove(lan)
		if err != nil {
			return err
		}
		b.MakeMove(m)
	}
	return nil
}
