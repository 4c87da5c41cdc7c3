package entity

// RoastLevel classifies the roast profiles a café serves.
// The enumeration is closed: values outside it are dropped during normalization.
type RoastLevel string

const (
	RoastLight      RoastLevel = "light"
	RoastMedium     RoastLevel = "medium"
	RoastMediumDark RoastLevel = "medium_dark"
	RoastDark       RoastLevel = "dark"
)

// String returns the string representation of the RoastLevel.
func (r RoastLevel) String() string {
	return string(r)
}

// IsValid checks if the RoastLevel is part of the closed enumeration.
func (r RoastLevel) IsValid() bool {
	switch r {
	case RoastLight, RoastMedium, RoastMediumDark, RoastDark:
		return true
	default:
		return false
	}
}

// BrewMethod classifies the brewing methods a café offers.
type BrewMethod string

const (
	BrewEspresso    BrewMethod = "espresso"
	BrewDrip        BrewMethod = "drip"
	BrewPourOver    BrewMethod = "pour_over"
	BrewFrenchPress BrewMethod = "french_press"
	BrewAeropress   BrewMethod = "aeropress"
	BrewColdBrew    BrewMethod = "cold_brew"
	BrewSiphon      BrewMethod = "siphon"
)

// String returns the string representation of the BrewMethod.
func (b BrewMethod) String() string {
	return string(b)
}

// IsValid checks if the BrewMethod is part of the closed enumeration.
func (b BrewMethod) IsValid() bool {
	switch b {
	case BrewEspresso, BrewDrip, BrewPourOver, BrewFrenchPress, BrewAeropress, BrewColdBrew, BrewSiphon:
		return true
	default:
		return false
	}
}

// NormalizeRoastLevels filters out values that are not in the roast enumeration.
// Invalid values are dropped silently rather than rejected.
func NormalizeRoastLevels(values []string) []RoastLevel {
	result := make([]RoastLevel, 0, len(values))
	for _, v := range values {
		level := RoastLevel(v)
		if level.IsValid() {
			result = append(result, level)
		}
	}

	return result
}

// NormalizeBrewMethods filters out values that are not in the brew-method enumeration.
func NormalizeBrewMethods(values []string) []BrewMethod {
	result := make([]BrewMethod, 0, len(values))
	for _, v := range values {
		method := BrewMethod(v)
		if method.IsValid() {
			result = append(result, method)
		}
	}

	return result
}
