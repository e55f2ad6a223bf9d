package dice

import "go.uber.org/zap"

// Roller is the single point where faces are produced. Pre-recorded faces on
// the tape always win over the Source, and every face is recorded back.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller drawing fresh faces from src.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Draw rolls expr against tape.
//
// Precondition: expr.Count >= 1 and expr.Sides >= 1; tape is non-nil.
// Postcondition: queued faces are used as recorded, fresh faces are in
// [1, expr.Sides]; exactly expr.Count faces were appended to the tape
// history, in the order they appear in result.Dice.
func (r *Roller) Draw(expr Expression, tape Tape) RollResult {
	result := RollResult{
		Expression: expr.String(),
		Dice:       make([]int, expr.Count),
		Modifier:   expr.Modifier,
	}
	for i := range result.Dice {
		face, ok := tape.NextFuture()
		if ok {
			result.Replayed++
		} else {
			face = r.src.Intn(expr.Sides) + 1
		}
		tape.Record(face)
		result.Dice[i] = face
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
		zap.Int("replayed", result.Replayed),
	)
	return result
}
