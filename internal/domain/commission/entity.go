package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role a plan applies to. Kitchen staff earn no commission, so no plan role
// exists for them.
type Role string

const (
	RoleInside Role = "INSIDE"
	RoleField  Role = "FIELD"
)

func (r Role) Valid() bool {
	return r == RoleInside || r == RoleField
}

// Bracket maps a closed settlement-amount range to a fixed payout. Both
// bounds are inclusive.
type Bracket struct {
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Fixed decimal.Decimal `json:"fixed"`
}

// Contains reports whether amount falls inside the bracket, bounds included.
func (b Bracket) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(b.Min) && amount.LessThanOrEqual(b.Max)
}

// Plan is an ordered bracket table for one role. Exactly one default plan is
// expected per role; employees may carry an explicit plan assignment that
// wins over the default.
type Plan struct {
	ID        string
	Name      string
	Role      Role
	IsDefault bool
	Brackets  []Bracket
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result of a bracket lookup. Matched false means the amount fell below the
// lowest bracket, above the highest, or inside a gap; commission is zero and
// the bounds are left at zero.
type Result struct {
	Amount     decimal.Decimal
	BracketMin decimal.Decimal
	BracketMax decimal.Decimal
	Matched    bool
}
