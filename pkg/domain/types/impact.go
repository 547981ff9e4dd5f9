package types

import "fmt"

// ImpactAspect names one of the five impact dimensions a hazard or risk can be flagged for
type ImpactAspect string

const (
	ImpactHealth      ImpactAspect = "health"
	ImpactSafety      ImpactAspect = "safety"
	ImpactSecurity    ImpactAspect = "security"
	ImpactEnvironment ImpactAspect = "environment"
	ImpactSocial      ImpactAspect = "social"
)

// AllImpactAspects returns the aspects in display order
func AllImpactAspects() []ImpactAspect {
	return []ImpactAspect{
		ImpactHealth,
		ImpactSafety,
		ImpactSecurity,
		ImpactEnvironment,
		ImpactSocial,
	}
}

// IsValid checks if the aspect is known
func (a ImpactAspect) IsValid() bool {
	switch a {
	case ImpactHealth, ImpactSafety, ImpactSecurity, ImpactEnvironment, ImpactSocial:
		return true
	default:
		return false
	}
}

// String returns the string representation of the aspect
func (a ImpactAspect) String() string {
	return string(a)
}

// ParseImpactAspect parses a string into an ImpactAspect
func ParseImpactAspect(s string) (ImpactAspect, error) {
	a := ImpactAspect(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid impact aspect: %s", s)
	}
	return a, nil
}
