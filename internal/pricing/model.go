package pricing

import "time"

// Prices is a singleton: one row holds the current coin cost of each paid
// action. Changes apply to future actions only.
type Prices struct {
	ID                int       `db:"id" json:"-"`
	PropertyPostCost  int64     `db:"property_post_cost" json:"property_post_cost"`
	ContactRevealCost int64     `db:"contact_reveal_cost" json:"contact_reveal_cost"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
