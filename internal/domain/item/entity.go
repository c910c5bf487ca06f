package item

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the sellable catalog entry. The catalog itself is managed by an
// external collaborator; this core only reads it and references item ids.
type Item struct {
	ID        string
	Name      string
	Unit      string
	SellPrice decimal.Decimal
	CostPrice decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
