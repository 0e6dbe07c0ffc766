package domain

import "fmt"

// Kind identifies a document kind. Each kind numbers its documents
// independently per calendar year.
type Kind string

const (
	KindPOW             Kind = "POW"
	KindPurchaseRequest Kind = "PR"
	KindProject         Kind = "PROJ"
)

// MaxSequence is the largest suffix a (kind, year) bucket may issue.
// Allocation past this fails with ErrCapacityExceeded, it never wraps.
const MaxSequence = 99999

// ParseKind validates a kind string from the outside.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPOW, KindPurchaseRequest, KindProject:
		return Kind(s), true
	}
	return "", false
}

// FormatCode renders the human-readable document number, e.g. POW-2026-00001.
func FormatCode(kind Kind, year, seq int) string {
	return fmt.Sprintf("%s-%d-%05d", kind, year, seq)
}
