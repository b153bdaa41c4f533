package domain

import "fmt"

// RiskProfile is the 0-4 aggressiveness class applied to the user's automated
// trading. The trading engine interprets it; the client only selects and
// displays it.
type RiskProfile int

const (
	RiskMicro  RiskProfile = 0
	RiskLow    RiskProfile = 1
	RiskMedium RiskProfile = 2
	RiskHigh   RiskProfile = 3
	RiskUltra  RiskProfile = 4
)

// DefaultRiskProfile is what onboarding preselects.
const DefaultRiskProfile = RiskMedium

var riskLabels = map[RiskProfile]struct {
	label       string
	description string
}{
	RiskMicro:  {"Micro", "Ultra conservative, minimal risk"},
	RiskLow:    {"Low", "Conservative approach"},
	RiskMedium: {"Medium", "Balanced risk/reward"},
	RiskHigh:   {"High", "Aggressive trading"},
	RiskUltra:  {"Ultra", "Maximum risk tolerance"},
}

// Valid reports whether p is one of the five defined profiles.
func (p RiskProfile) Valid() bool {
	_, ok := riskLabels[p]
	return ok
}

// Label returns the short display name ("Micro" ... "Ultra").
func (p RiskProfile) Label() string {
	if l, ok := riskLabels[p]; ok {
		return l.label
	}
	return fmt.Sprintf("RiskProfile(%d)", int(p))
}

// Description returns the one-line explanation shown during onboarding.
func (p RiskProfile) Description() string {
	if l, ok := riskLabels[p]; ok {
		return l.description
	}
	return ""
}

// RiskProfiles lists all profiles in ascending aggressiveness, for pickers.
func RiskProfiles() []RiskProfile {
	return []RiskProfile{RiskMicro, RiskLow, RiskMedium, RiskHigh, RiskUltra}
}
