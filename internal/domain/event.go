package domain

import "time"

// Event owns the capacity ledger for a single party: sold_count may never
// exceed capacity, and only ticket fulfillment increments sold_count.
type Event struct {
	ID                  string
	Name                string
	OrganizerID         string
	StartsAt            time.Time
	Capacity            int
	SoldCount           int
	UnitPriceMinorUnits int
	// RequiresAcademicInfo forces one faculty entry per holder name on orders.
	RequiresAcademicInfo bool
	// ExitTracking enables the entered -> completed scan transition.
	ExitTracking bool
	CreatedAt    time.Time
}

// Remaining reports how many tickets can still be sold.
func (e Event) Remaining() int {
	return e.Capacity - e.SoldCount
}

// IsFree reports whether admission carries no charge (and thus no service fee).
func (e Event) IsFree() bool {
	return e.UnitPriceMinorUnits == 0
}
