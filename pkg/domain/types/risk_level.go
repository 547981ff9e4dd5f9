package types

// RiskLevel is the qualitative level derived from a probability and severity pair
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelVeryHigh RiskLevel = "Very High"
)

// Classify maps probability x severity onto a RiskLevel.
// Inputs are not clamped; range checks belong to the caller.
func Classify(probability, severity int) RiskLevel {
	score := probability * severity
	switch {
	case score <= 4:
		return RiskLevelLow
	case score <= 9:
		return RiskLevelMedium
	case score <= 15:
		return RiskLevelHigh
	default:
		return RiskLevelVeryHigh
	}
}

// AllRiskLevels returns all levels from lowest to highest
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelVeryHigh,
	}
}

// IsValid checks if the level is one of the known levels
func (l RiskLevel) IsValid() bool {
	return l.Rank() > 0
}

// Rank returns 1 (Low) to 4 (Very High), or 0 for an unknown level
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	case RiskLevelVeryHigh:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of the level
func (l RiskLevel) String() string {
	return string(l)
}
