package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/config"
)

// Evaluator adds up the scores of its calculators. Calculators are
// stateless, so an Evaluator may be shared between goroutines.
type Evaluator struct {
	calculators []Calculator
}

func NewEvaluator(calcs ...Calculator) *Evaluator {
	return &Evaluator{calculators: calcs}
}

// NewEvaluatorFromConfig builds the standard set of calculators with weights
// from cfg.
func NewEvaluatorFromConfig(cfg *config.Config) *Evaluator {
	return NewEvaluator(
		LineCalculator{
			Weight:        cfg.GetInt(config.ConfigWeightLine),
			PartialWeight: cfg.GetInt(config.ConfigWeightPartial),
		},
		HoleCalculator{
			OpenWeight:   cfg.GetInt(config.ConfigWeightHoleOpen),
			ClosedWeight: cfg.GetInt(config.ConfigWeightHoleClosed),
		},
		FlatnessCalculator{Weight: cfg.GetInt(config.ConfigWeightFlat)},
		HeightCalculator{Weight: cfg.GetInt(config.ConfigWeightHeight)},
		LookaheadCalculator{Weight: cfg.GetInt(config.ConfigWeightLookahead)},
	)
}

func (e *Evaluator) Calculators() []Calculator { return e.calculators }

func (e *Evaluator) Evaluate(b *board.Board) int {
	return lo.SumBy(e.calculators, func(c Calculator) int {
		return c.Score(b)
	})
}

// Term is one calculator's contribution to a score.
type Term struct {
	Type  string
	Score int
}

// Breakdown lists each calculator's score, in evaluation order.
func (e *Evaluator) Breakdown(b *board.Board) []Term {
	return lo.Map(e.calculators, func(c Calculator, _ int) Term {
		return Term{Type: c.Type(), Score: c.Score(b)}
	})
}
