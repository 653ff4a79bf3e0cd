package models

import "time"

// Record is one month of income and expenses for a user. Debt is the
// shortfall for the month (expense minus income, floored at zero) and is
// computed at creation time.
type Record struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	UserID    string    `db:"user_id" bson:"user_id" json:"-"`
	Month     string    `db:"month" bson:"month" json:"month"` // YYYY-MM
	Income    float64   `db:"income" bson:"income" json:"income"`
	Expense   float64   `db:"expense" bson:"expense" json:"expense"`
	Debt      float64   `db:"debt" bson:"debt" json:"debt"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}
