package eval

import (
	"github.com/zugzwang-chess/zugzwang/pkg/common"
)

// EvaluationService counts material only. It is a baseline for debugging
// the search, not a playing evaluator.
type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

func (e *EvaluationService) Evaluate(b *common.Board) int {
	var eval = b.Material[common.SideWhite] - b.Material[common.SideBlack]
	if b.SideToMove == common.SideBlack {
		eval = -eval
	}
	return eval
}
