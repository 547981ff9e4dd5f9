package types

import "fmt"

// RiskID identifies a registered risk, e.g. "R-001"
type RiskID string

// NewRiskID builds the sequential id "R-%03d"
func NewRiskID(n int) RiskID {
	return RiskID(fmt.Sprintf("R-%03d", n))
}

// String returns the string representation of RiskID
func (r RiskID) String() string {
	return string(r)
}
