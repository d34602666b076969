package tier

// Level is the three-tier classification shared by trend badges and budget
// evaluation.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "ok"
	}
}

// Classify compares a value against a limit scaled by two multipliers and
// returns the tier reached. Bounds are inclusive: hitting a threshold
// exactly lands in the higher tier. A non-positive value is always
// LevelOK; a positive value over a zero limit is LevelCritical.
func Classify(value, limit, warnMult, critMult float64) Level {
	if value <= 0 {
		return LevelOK
	}
	switch {
	case value >= limit*critMult:
		return LevelCritical
	case value >= limit*warnMult:
		return LevelWarning
	default:
		return LevelOK
	}
}

// ClassifyStrict is Classify with exclusive bounds: a value exactly on a
// threshold stays in the lower tier.
func ClassifyStrict(value, limit, warnMult, critMult float64) Level {
	if value <= 0 {
		return LevelOK
	}
	switch {
	case value > limit*critMult:
		return LevelCritical
	case value > limit*warnMult:
		return LevelWarning
	default:
		return LevelOK
	}
}
