package common

import "time"

const (
	SideWhite = iota
	SideBlack
)

const (
	Empty int = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	COLOUR_NB = 2
	PIECE_NB  = King + 1
)

const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const (
	MaxMoves = 256
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type OrderedMove struct {
	Move Move
	Key  int32
}

// State is the irreversible part of a position saved before each move.
type State struct {
	Castling      int
	EpSquare      int
	HalfmoveClock int
	Captured      int
	Hash          uint64
	PawnHash      uint64
}

type LimitsType struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	SearchMoves    []string
}

// SearchParams carries a board whose undo stack holds the game played so far.
type SearchParams struct {
	Board    *Board
	Limits   LimitsType
	Progress func(si SearchInfo)
}

type UciScore struct {
	Centipawns int
	Mate       int
}

type PVLine struct {
	Score UciScore
	Moves []Move
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	Nodes    int64
	Time     time.Duration
	Hashfull int
	MainLine []Move
	Lines    []PVLine
	Stats    SearchStats
}

// SearchStats are counters summed over all search threads.
type SearchStats struct {
	Nodes             int64
	QNodes            int64
	Leafs             int64
	QLeafs            int64
	BetaCutoffs       int64
	QBetaCutoffs      int64
	PerfectCutoffs    int64
	NonPerfectCutoffs int64
	TTHits            int64
	TTMisses          int64
	TTCollisions      int64
	TTAdded           int64
	TBHits            int64
	RazoringAccepted  int64
	RazoringRejected  int64
	SNMPAccepted      int64
	SNMPRejected      int64
	NMPAccepted       int64
	NMPRejected       int64
	LMPAccepted       int64
	LMRReductions     int64
	PVSResearches     int64
	MaxPly            int
}

func (s *SearchStats) Add(other *SearchStats) {
	s.Nodes += other.Nodes
	s.QNodes += other.QNodes
	s.Leafs += other.Leafs
	s.QLeafs += other.QLeafs
	s.BetaCutoffs += other.BetaCutoffs
	s.QBetaCutoffs += other.QBetaCutoffs
	s.PerfectCutoffs += other.PerfectCutoffs
	s.NonPerfectCutoffs += other.NonPerfectCutoffs
	s.TTHits += other.TTHits
	s.TTMisses += other.TTMisses
	s.TTCollisions += other.TTCollisions
	s.TTAdded += other.TTAdded
	s.TBHits += other.TBHits
	s.RazoringAccepted += other.RazoringAccepted
	s.RazoringRejected += other.RazoringRejected
	s.SNMPAccepted += other.SNMPAccepted
	s.SNMPRejected += other.SNMPRejected
	s.NMPAccepted += other.NMPAccepted
	s.NMPRejected += other.NMPRejected
	s.LMPAccepted += other.LMPAccepted
	s.LMRReductions += other.LMRReductions
	s.PVSResearches += other.PVSResearches
	s.MaxPly = Max(s.MaxPly, other.MaxPly)
}

// TotalNodes counts regular and quiescence nodes.
func (s *SearchStats) TotalNodes() int64 {
	return s.Nodes + s.QNodes
}
