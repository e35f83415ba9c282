package entity

// Lifecycle statuses shared by vehicles and auctions.
const (
	StatusUpcoming = "upcoming"
	StatusActive   = "active"
	StatusEnded    = "ended"
)

var statusRank = map[string]int{
	StatusUpcoming: 0,
	StatusActive:   1,
	StatusEnded:    2,
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a status may move from one value to another.
// Moves are forward-only; staying in place is not a transition.
func CanTransition(from, to string) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t > f
}
