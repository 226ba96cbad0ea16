package enums

import "fmt"

// TeamKind identifies the functional area a supplier team covers.
type TeamKind string

const (
	TeamKindLogistics  TeamKind = "logistics"
	TeamKindAccounting TeamKind = "accounting"
	TeamKindSales      TeamKind = "sales"
)

var validTeamKinds = []TeamKind{
	TeamKindLogistics,
	TeamKindAccounting,
	TeamKindSales,
}

// String implements fmt.Stringer.
func (k TeamKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TeamKind.
func (k TeamKind) IsValid() bool {
	for _, candidate := range validTeamKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTeamKind converts raw input into a TeamKind.
func ParseTeamKind(value string) (TeamKind, error) {
	for _, candidate := range validTeamKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid team kind %q", value)
}
