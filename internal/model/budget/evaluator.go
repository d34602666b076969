package budget

import (
	"max.ks1230/expense-tracker/internal/model/tier"
)

// Budget tiers: 70% of the limit is a warning, 90% is critical. Unlike the
// trend policy this measures an absolute configured limit, so the two keep
// separate multipliers over the shared classifier.
const (
	warnFraction = 0.7
	critFraction = 0.9

	maxPercentage = 100
)

// Evaluation compares a spent amount against a configured limit.
// Percentage is clamped to [0,100]. Applicable is false when the limit is
// unset (zero); Percentage and Level are meaningless then.
type Evaluation struct {
	Spent      int64
	Limit      int64
	Percentage float64
	Level      tier.Level
	Applicable bool
}

// Evaluate classifies spending against a daily or category budget.
func Evaluate(spent, limit int64) Evaluation {
	if limit <= 0 {
		return Evaluation{Spent: spent, Limit: limit}
	}
	pct := float64(spent) / float64(limit) * 100
	if pct > maxPercentage {
		pct = maxPercentage
	}
	return Evaluation{
		Spent:      spent,
		Limit:      limit,
		Percentage: pct,
		Level:      tier.Classify(float64(spent), float64(limit), warnFraction, critFraction),
		Applicable: true,
	}
}

// Crossed reports the tier reached when a mutation raised the evaluation
// out of the ok level. It is the one-shot signal behind budget
// notifications: re-evaluating unchanged state never reports a crossing.
func Crossed(before, after Evaluation) (tier.Level, bool) {
	if !after.Applicable {
		return tier.LevelOK, false
	}
	if after.Level > before.Level && after.Level > tier.LevelOK {
		return after.Level, true
	}
	return tier.LevelOK, false
}
