package consts

import (
	"strings"

	"github.com/shopspring/decimal"
)

type PlanTier int

const (
	StarterTier PlanTier = 1 + iota
	ProTier
	UltimateTier
)

var planTierStrToEnum = map[string]PlanTier{
	"starter":  StarterTier,
	"pro":      ProTier,
	"ultimate": UltimateTier,
}

func (e PlanTier) String() string {
	switch e {
	case StarterTier:
		return "starter"
	case ProTier:
		return "pro"
	case UltimateTier:
		return "ultimate"
	default:
		return ""
	}
}

// PlanStringToEnum resolves a plan identifier; the zero value means unknown.
func PlanStringToEnum(plan string) PlanTier {
	return planTierStrToEnum[strings.ToLower(strings.TrimSpace(plan))]
}

func PlanTiers() []PlanTier {
	return []PlanTier{StarterTier, ProTier, UltimateTier}
}

// PlanCharge is the plan price in token units. Parsed from strings so that
// tolerance comparisons stay exact.
var PlanCharge = map[PlanTier]decimal.Decimal{
	StarterTier:  decimal.RequireFromString("9.99"),
	ProTier:      decimal.RequireFromString("19.99"),
	UltimateTier: decimal.RequireFromString("29.99"),
}

// PlanDurationDays is how long one paid period lasts. A renewal overwrites
// the running period instead of stacking onto it.
var PlanDurationDays = map[PlanTier]int{
	StarterTier:  30,
	ProTier:      30,
	UltimateTier: 30,
}
