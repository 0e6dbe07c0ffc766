package domain

// Status is a document lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusForReview Status = "FOR_REVIEW"
	StatusRevision  Status = "REVISION"
	StatusReleased  Status = "RELEASED"
)

// transitions is the lifecycle table. RELEASED is terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusForReview},
	StatusForReview: {StatusRevision, StatusReleased},
	StatusRevision:  {StatusForReview},
	StatusReleased:  {},
}

// ParseStatus validates a status string from the outside.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusForReview, StatusRevision, StatusReleased:
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether from -> to is an allowed transition.
// Requesting the current status is not allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether document fields may be mutated in this state.
func Editable(s Status) bool {
	return s == StatusDraft || s == StatusRevision
}

// Deletable reports whether a document in this state may be deleted.
func Deletable(s Status) bool {
	return s == StatusDraft
}

// Terminal reports whether no transition leaves this state.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}
