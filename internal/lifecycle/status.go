package lifecycle

import (
	"fmt"
	"slices"

	"github.com/you-humble/btp-quote/internal/model"
)

// Allowed forward moves. Statuses missing from the map are terminal.
var transitions = map[model.QuoteStatus][]model.QuoteStatus{
	model.StatusDraft: {model.StatusSent},
	model.StatusSent:  {model.StatusAccepted, model.StatusRejected, model.StatusExpired},
}

var statuses = []model.QuoteStatus{
	model.StatusDraft,
	model.StatusSent,
	model.StatusAccepted,
	model.StatusRejected,
	model.StatusExpired,
}

func KnownStatus(s model.QuoteStatus) bool {
	return slices.Contains(statuses, s)
}

// Terminal reports whether no transition leaves s.
func Terminal(s model.QuoteStatus) bool {
	return KnownStatus(s) && len(transitions[s]) == 0
}

func CanTransition(from, to model.QuoteStatus) bool {
	return slices.Contains(transitions[from], to)
}

// ValidateTransition accepts a legal move or staying in place.
func ValidateTransition(from, to model.QuoteStatus) error {
	if !KnownStatus(from) {
		return model.NewValidationError(fmt.Sprintf("%s %q", model.ErrUnknownStatus, from))
	}
	if !KnownStatus(to) {
		return model.NewValidationError(fmt.Sprintf("%s %q", model.ErrUnknownStatus, to))
	}
	if from == to || CanTransition(from, to) {
		return nil
	}
	return model.NewValidationError(fmt.Sprintf("status transition %s -> %s is not allowed", from, to))
}

// ValidateInitial checks the status a brand new quote is created with.
func ValidateInitial(s model.QuoteStatus) error {
	if s != model.StatusDraft {
		return model.NewValidationError(fmt.Sprintf("a new quote must start as %s, got %q", model.StatusDraft, s))
	}
	return nil
}
