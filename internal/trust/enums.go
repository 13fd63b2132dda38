package trust

// Severity grades a reported incident.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// impactWeight is the severity component of an incident's impact.
func (s Severity) impactWeight() int {
	switch s {
	case SeveritySevere:
		return 5
	case SeverityModerate:
		return 3
	case SeverityMild:
		return 1
	default:
		return 0
	}
}

// summaryWeight is the 1-3 scale used when averaging severities.
func (s Severity) summaryWeight() int {
	switch s {
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMild:
		return 1
	default:
		return 0
	}
}

// TrustLevel is the ordinal classification of a venue's total score.
type TrustLevel string

const (
	LevelUnverified    TrustLevel = "unverified"
	LevelUseCaution    TrustLevel = "use_caution"
	LevelCommunitySafe TrustLevel = "community_safe"
	LevelVerified      TrustLevel = "verified"
)

func (l TrustLevel) Valid() bool {
	switch l {
	case LevelUnverified, LevelUseCaution, LevelCommunitySafe, LevelVerified:
		return true
	}
	return false
}

// Rank returns the ordinal position of the level, 0 (unverified) to 3 (verified).
// Unknown levels rank below unverified.
func (l TrustLevel) Rank() int {
	switch l {
	case LevelVerified:
		return 3
	case LevelCommunitySafe:
		return 2
	case LevelUseCaution:
		return 1
	case LevelUnverified:
		return 0
	default:
		return -1
	}
}

// Label is the badge text shown next to a venue.
func (l TrustLevel) Label() string {
	switch l {
	case LevelVerified:
		return "Verified"
	case LevelCommunitySafe:
		return "Community Safe"
	case LevelUseCaution:
		return "Use Caution"
	default:
		return "Unverified"
	}
}

func (l TrustLevel) Description() string {
	switch l {
	case LevelVerified:
		return "Professionally verified with strong, recent community support."
	case LevelCommunitySafe:
		return "Consistently safe reports from the community."
	case LevelUseCaution:
		return "Limited or mixed safety information. Ask staff before ordering."
	default:
		return "Not enough safety information to rate this venue."
	}
}

// VerificationMethod records how a professional score was obtained.
type VerificationMethod string

const (
	MethodNone             VerificationMethod = "none"
	MethodOwnerAttested    VerificationMethod = "owner_attested"
	MethodCommunity        VerificationMethod = "community"
	MethodHealthInspection VerificationMethod = "health_inspection"
	MethodThirdPartyAudit  VerificationMethod = "third_party_audit"
)

func (m VerificationMethod) Valid() bool {
	switch m {
	case MethodNone, MethodOwnerAttested, MethodCommunity,
		MethodHealthInspection, MethodThirdPartyAudit:
		return true
	}
	return false
}
