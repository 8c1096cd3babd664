package common

import (
	"github.com/pkg/errors"
)

// Board is a bit-packed position with an undo stack.
// Occupancy[side] is always the union of Pieces[side][Pawn..King] and
// Squares agrees with the bitboards.
type Board struct {
	Pieces         [COLOUR_NB][PIECE_NB]uint64
	Occupancy      [COLOUR_NB]uint64
	Squares        [64]int
	SideToMove     int
	Castling       int
	EpSquare       int
	HalfmoveClock  int
	FullmoveNumber int
	Hash           uint64
	PawnHash       uint64
	Material       [COLOUR_NB]int
	PST            [COLOUR_NB]Score
	Phase          int
	NullMoves      int
	states         []State
	tables         *Tables
}

func newEmptyBoard(tables *Tables) *Board {
	return &Board{
		EpSquare:       SquareNone,
		FullmoveNumber: 1,
		states:         make([]State, 0, 256),
		tables:         tables,
	}
}

func NewInitialBoard(tables *Tables) *Board {
	var b, err = NewBoardFromFEN(tables, InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Tables() *Tables {
	return b.tables
}

// Clone returns an independent board sharing only the immutable tables.
func (b *Board) Clone() *Board {
	var result = *b
	result.states = make([]State, len(b.states), Max(cap(b.states), 256))
	copy(result.states, b.states)
	return &result
}

// Ply is the number of moves on the undo stack.
func (b *Board) Ply() int {
	return len(b.states)
}

func (b *Board) AllPieces() uint64 {
	return b.Occupancy[SideWhite] | b.Occupancy[SideBlack]
}

func (b *Board) PiecesOfKind(piece int) uint64 {
	return b.Pieces[SideWhite][piece] | b.Pieces[SideBlack][piece]
}

func (b *Board) PieceAt(sq int) int {
	return b.Squares[sq]
}

// ColorAt returns the side owning sq, or -1 for an empty square.
func (b *Board) ColorAt(sq int) int {
	var mask = SquareMask(sq)
	if b.Occupancy[SideWhite]&mask != 0 {
		return SideWhite
	}
	if b.Occupancy[SideBlack]&mask != 0 {
		return SideBlack
	}
	return -1
}

func (b *Board) KingSquare(side int) int {
	return FirstOne(b.Pieces[side][King])
}

func (b *Board) GamePhase() int {
	return Min(b.Phase, MaxPhase)
}

// AttackersTo returns pieces of both sides attacking sq given occupancy occ.
func (b *Board) AttackersTo(sq int, occ uint64) uint64 {
	var t = b.tables
	var bishops = b.PiecesOfKind(Bishop) | b.PiecesOfKind(Queen)
	var rooks = b.PiecesOfKind(Rook) | b.PiecesOfKind(Queen)
	return (t.PawnAttacks[SideBlack][sq] & b.Pieces[SideWhite][Pawn]) |
		(t.PawnAttacks[SideWhite][sq] & b.Pieces[SideBlack][Pawn]) |
		(t.KnightAttacks[sq] & b.PiecesOfKind(Knight)) |
		(t.KingAttacks[sq] & b.PiecesOfKind(King)) |
		(t.BishopAttacks(sq, occ) & bishops) |
		(t.RookAttacks(sq, occ) & rooks)
}

func (b *Board) IsSquareAttacked(sq, bySide int) bool {
	var t = b.tables
	var their = &b.Pieces[bySide]
	if t.PawnAttacks[bySide^1][sq]&their[Pawn] != 0 ||
		t.KnightAttacks[sq]&their[Knight] != 0 ||
		t.KingAttacks[sq]&their[King] != 0 {
		return true
	}
	var occ = b.AllPieces()
	return t.BishopAttacks(sq, occ)&(their[Bishop]|their[Queen]) != 0 ||
		t.RookAttacks(sq, occ)&(their[Rook]|their[Queen]) != 0
}

func (b *Board) IsInCheck(side int) bool {
	var king = b.Pieces[side][King]
	if king == 0 {
		return false
	}
	return b.IsSquareAttacked(FirstOne(king), side^1)
}

func (b *Board) IsCheck() bool {
	return b.IsInCheck(b.SideToMove)
}

// Checkers returns the enemy pieces giving check to the side to move.
func (b *Board) Checkers() uint64 {
	var us = b.SideToMove
	return b.AttackersTo(b.KingSquare(us), b.AllPieces()) & b.Occupancy[us^1]
}

// IsLegalAfterMake reports whether the side that just moved left its king safe.
func (b *Board) IsLegalAfterMake() bool {
	return !b.IsInCheck(b.SideToMove ^ 1)
}

// PawnAttacked returns every square attacked by pawns of side.
func (b *Board) PawnAttacked(side int) uint64 {
	return AllPawnAttacks(b.Pieces[side][Pawn], side)
}

// EvasionMask limits non-king move targets to the checker and the squares
// between it and the king. It is empty in double check.
func (b *Board) EvasionMask() uint64 {
	var checkers = b.Checkers()
	if checkers == 0 {
		return ^uint64(0)
	}
	if MoreThanOne(checkers) {
		return 0
	}
	return checkers | b.tables.Between[b.KingSquare(b.SideToMove)][FirstOne(checkers)]
}

func (b *Board) addPiece(side, piece, sq int) {
	var mask = SquareMask(sq)
	b.Pieces[side][piece] |= mask
	b.Occupancy[side] |= mask
	b.Squares[sq] = piece
	var key = b.tables.Zobrist.Piece[side][piece][sq]
	b.Hash ^= key
	if piece == Pawn {
		b.PawnHash ^= key
	}
	b.Material[side] += PieceValue[piece]
	b.PST[side] += b.tables.PST[side][piece][sq]
	b.Phase += PhaseWeight[piece]
}

func (b *Board) removePiece(side, piece, sq int) {
	var mask = SquareMask(sq)
	b.Pieces[side][piece] &^= mask
	b.Occupancy[side] &^= mask
	b.Squares[sq] = Empty
	var key = b.tables.Zobrist.Piece[side][piece][sq]
	b.Hash ^= key
	if piece == Pawn {
		b.PawnHash ^= key
	}
	b.Material[side] -= PieceValue[piece]
	b.PST[side] -= b.tables.PST[side][piece][sq]
	b.Phase -= PhaseWeight[piece]
}

func (b *Board) movePiece(side, piece, from, to int) {
	var mask = SquareMask(from) | SquareMask(to)
	b.Pieces[side][piece] ^= mask
	b.Occupancy[side] ^= mask
	b.Squares[from] = Empty
	b.Squares[to] = piece
	var keys = &b.tables.Zobrist.Piece[side][piece]
	var key = keys[from] ^ keys[to]
	b.Hash ^= key
	if piece == Pawn {
		b.PawnHash ^= key
	}
	b.PST[side] += b.tables.PST[side][piece][to] - b.tables.PST[side][piece][from]
}

var castleMask = func() (result [64]int) {
	for sq := range result {
		result[sq] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	result[SquareA1] &^= WhiteQueenSide
	result[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	result[SquareH1] &^= WhiteKingSide
	result[SquareA8] &^= BlackQueenSide
	result[SquareE8] &^= BlackQueenSide | BlackKingSide
	result[SquareH8] &^= BlackKingSide
	return
}()

func epCaptureSquare(to, side int) int {
	if side == SideWhite {
		return to - 8
	}
	return to + 8
}

// MakeMove plays m, which must be pseudo-legal in this position.
func (b *Board) MakeMove(m Move) {
	var from, to, flag = m.From(), m.To(), m.Flag()
	var us = b.SideToMove
	var them = us ^ 1
	var piece = b.Squares[from]
	if piece == Empty || b.Occupancy[us]&SquareMask(from) == 0 {
		b.fatal("no piece on source square", m)
	}

	b.states = append(b.states, State{
		Castling:      b.Castling,
		EpSquare:      b.EpSquare,
		HalfmoveClock: b.HalfmoveClock,
		Captured:      Empty,
		Hash:          b.Hash,
		PawnHash:      b.PawnHash,
	})
	var st = &b.states[len(b.states)-1]

	var z = &b.tables.Zobrist
	if b.EpSquare != SquareNone {
		b.Hash ^= z.EnPassant[File(b.EpSquare)]
		b.EpSquare = SquareNone
	}
	b.HalfmoveClock++

	switch flag {
	case FlagQuiet:
		b.movePiece(us, piece, from, to)
	case FlagDoublePush:
		b.movePiece(us, Pawn, from, to)
		b.EpSquare = (from + to) / 2
		b.Hash ^= z.EnPassant[File(b.EpSquare)]
	case FlagShortCastling:
		b.movePiece(us, King, from, to)
		b.movePiece(us, Rook, to+1, to-1)
	case FlagLongCastling:
		b.movePiece(us, King, from, to)
		b.movePiece(us, Rook, to-2, to+1)
	case FlagCapture:
		st.Captured = b.capturedAt(to, them, m)
		b.removePiece(them, st.Captured, to)
		b.movePiece(us, piece, from, to)
	case FlagEnPassant:
		st.Captured = Pawn
		b.removePiece(them, Pawn, epCaptureSquare(to, us))
		b.movePiece(us, Pawn, from, to)
	case FlagKnightPromotion, FlagBishopPromotion, FlagRookPromotion, FlagQueenPromotion:
		b.removePiece(us, Pawn, from)
		b.addPiece(us, m.Promotion(), to)
	case FlagKnightPromotionCapture, FlagBishopPromotionCapture, FlagRookPromotionCapture, FlagQueenPromotionCapture:
		st.Captured = b.capturedAt(to, them, m)
		b.removePiece(them, st.Captured, to)
		b.removePiece(us, Pawn, from)
		b.addPiece(us, m.Promotion(), to)
	default:
		b.fatal("reserved move flag", m)
	}

	if piece == Pawn || st.Captured != Empty {
		b.HalfmoveClock = 0
	}

	var castling = b.Castling & castleMask[from] & castleMask[to]
	if castling != b.Castling {
		b.Hash ^= z.Castling[b.Castling] ^ z.Castling[castling]
		b.Castling = castling
	}

	if us == SideBlack {
		b.FullmoveNumber++
	}
	b.SideToMove = them
	b.Hash ^= z.Side
}

func (b *Board) capturedAt(sq, side int, m Move) int {
	var captured = b.Squares[sq]
	if captured == Empty || b.Occupancy[side]&SquareMask(sq) == 0 {
		b.fatal("no piece to capture", m)
	}
	if captured == King {
		b.fatal("king capture", m)
	}
	return captured
}

// UndoMove reverts the last MakeMove(m).
func (b *Board) UndoMove(m Move) {
	if len(b.states) == 0 {
		b.fatal("undo with empty stack", m)
	}
	var st = b.states[len(b.states)-1]
	b.states = b.states[:len(b.states)-1]

	var from, to = m.From(), m.To()
	var them = b.SideToMove
	var us = them ^ 1
	b.SideToMove = us
	if us == SideBlack {
		b.FullmoveNumber--
	}

	switch m.Flag() {
	case FlagQuiet, FlagDoublePush:
		b.movePiece(us, b.Squares[to], to, from)
	case FlagShortCastling:
		b.movePiece(us, King, to, from)
		b.movePiece(us, Rook, to-1, to+1)
	case FlagLongCastling:
		b.movePiece(us, King, to, from)
		b.movePiece(us, Rook, to+1, to-2)
	case FlagCapture:
		b.movePiece(us, b.Squares[to], to, from)
		b.addPiece(them, st.Captured, to)
	case FlagEnPassant:
		b.movePiece(us, Pawn, to, from)
		b.addPiece(them, Pawn, epCaptureSquare(to, us))
	case FlagKnightPromotion, FlagBishopPromotion, FlagRookPromotion, FlagQueenPromotion:
		b.removePiece(us, m.Promotion(), to)
		b.addPiece(us, Pawn, from)
	case FlagKnightPromotionCapture, FlagBishopPromotionCapture, FlagRookPromotionCapture, FlagQueenPromotionCapture:
		b.removePiece(us, m.Promotion(), to)
		b.addPiece(us, Pawn, from)
		b.addPiece(them, st.Captured, to)
	default:
		b.fatal("reserved move flag", m)
	}

	b.Castling = st.Castling
	b.EpSquare = st.EpSquare
	b.HalfmoveClock = st.HalfmoveClock
	b.Hash = st.Hash
	b.PawnHash = st.PawnHash
}

// MakeNullMove passes the turn.
func (b *Board) MakeNullMove() {
	b.states = append(b.states, State{
		Castling:      b.Castling,
		EpSquare:      b.EpSquare,
		HalfmoveClock: b.HalfmoveClock,
		Captured:      Empty,
		Hash:          b.Hash,
		PawnHash:      b.PawnHash,
	})
	if b.EpSquare != SquareNone {
		b.Hash ^= b.tables.Zobrist.EnPassant[File(b.EpSquare)]
		b.EpSquare = SquareNone
	}
	b.SideToMove ^= 1
	b.Hash ^= b.tables.Zobrist.Side
	b.NullMoves++
}

func (b *Board) UndoNullMove() {
	if len(b.states) == 0 {
		b.fatal("undo with empty stack", MoveEmpty)
	}
	var st = b.states[len(b.states)-1]
	b.states = b.states[:len(b.states)-1]
	b.SideToMove ^= 1
	b.NullMoves--
	b.EpSquare = st.EpSquare
	b.Hash = st.Hash
	b.PawnHash = st.PawnHash
}

// IsRepetitionDraw reports whether the current position occurred threshold
// times, counting itself, since the last irreversible move.
func (b *Board) IsRepetitionDraw(threshold int) bool {
	if b.NullMoves > 0 {
		return false
	}
	var n = len(b.states)
	var count = 1
	for i := n - 2; i >= 0 && i >= n-b.HalfmoveClock; i -= 2 {
		if b.states[i].Hash == b.Hash {
			count++
			if count >= threshold {
				return true
			}
		}
	}
	return false
}

func (b *Board) IsFiftyMoveDraw() bool {
	return b.HalfmoveClock >= 100
}

// IsInsufficientMaterial covers K v K, a single minor, and bishops all on one square colour.
func (b *Board) IsInsufficientMaterial() bool {
	if b.PiecesOfKind(Pawn)|b.PiecesOfKind(Rook)|b.PiecesOfKind(Queen) != 0 {
		return false
	}
	var knights = b.PiecesOfKind(Knight)
	var bishops = b.PiecesOfKind(Bishop)
	if !MoreThanOne(knights | bishops) {
		return true
	}
	return knights == 0 && (bishops&DarkSquares == 0 || bishops&LightSquares == 0)
}

// ComputeHashes recomputes both keys from scratch.
func (b *Board) ComputeHashes() (hash, pawnHash uint64) {
	var z = &b.tables.Zobrist
	for side := SideWhite; side <= SideBlack; side++ {
		for piece := Pawn; piece <= King; piece++ {
			for x := b.Pieces[side][piece]; x != 0; x &= x - 1 {
				var key = z.Piece[side][piece][FirstOne(x)]
				hash ^= key
				if piece == Pawn {
					pawnHash ^= key
				}
			}
		}
	}
	hash ^= z.Castling[b.Castling]
	if b.EpSquare != SquareNone {
		hash ^= z.EnPassant[File(b.EpSquare)]
	}
	if b.SideToMove == SideBlack {
		hash ^= z.Side
	}
	return
}

// CheckInvariants reports the first inconsistency between redundant fields.
func (b *Board) CheckInvariants() error {
	for side := SideWhite; side <= SideBlack; side++ {
		var union uint64
		for piece := Pawn; piece <= King; piece++ {
			union |= b.Pieces[side][piece]
			for x := b.Pieces[side][piece]; x != 0; x &= x - 1 {
				if b.Squares[FirstOne(x)] != piece {
					return errors.Errorf("square table disagrees at %v", SquareName(FirstOne(x)))
				}
			}
		}
		if union != b.Occupancy[side] {
			return errors.Errorf("occupancy mismatch for side %v", side)
		}
	}
	for sq := 0; sq < 64; sq++ {
		if (b.Squares[sq] == Empty) != (b.AllPieces()&SquareMask(sq) == 0) {
			return errors.Errorf("square table disagrees at %v", SquareName(sq))
		}
	}
	var hash, pawnHash = b.ComputeHashes()
	if hash != b.Hash || pawnHash != b.PawnHash {
		return errors.New("hash mismatch")
	}
	return nil
}

func (b *Board) fatal(msg string, m Move) {
	panic(errors.Errorf("%s: fen %q move %v bits %#04x", msg, b.FEN(), m, uint16(m)))
}
