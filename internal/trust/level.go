package trust

// Level thresholds on the total score (inclusive lower bounds).
const (
	VerifiedThreshold      = 80
	CommunitySafeThreshold = 60
	UseCautionThreshold    = 30
)

// LevelFor classifies a total score.
func LevelFor(total int) TrustLevel {
	switch {
	case total >= VerifiedThreshold:
		return LevelVerified
	case total >= CommunitySafeThreshold:
		return LevelCommunitySafe
	case total >= UseCautionThreshold:
		return LevelUseCaution
	default:
		return LevelUnverified
	}
}

// LevelBelow reports whether level ranks strictly below threshold.
func LevelBelow(level, threshold TrustLevel) bool {
	return level.Rank() < threshold.Rank()
}
