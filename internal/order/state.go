package order

// transitions is the full set of allowed status moves. Anything not listed
// is rejected; status never moves backward.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether moving from s to next is allowed by the
// lifecycle table alone. Callers still enforce data preconditions (service
// orders need inspection confirmations before completing).
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}
