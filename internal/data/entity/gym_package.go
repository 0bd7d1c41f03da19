package entity

// GymPackage is a membership package (e.g. 1 month, 3 months).
type GymPackage struct {
	Base
	Name         string  `db:"name"`
	DurationDays int     `db:"duration_days"`
	Price        float64 `db:"price"`
	IsActive     bool    `db:"is_active"`
}
