package models

import "strings"

// Status is the server-owned lifecycle state of an order. The terminal never
// computes a transition itself; it only requests transitions from the backend
// and renders whatever status the backend reports.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// The backend emits two status vocabularies: the lowercase set above on the
// order API and a display set ("New Order", "Cooking", ...) on kitchen
// payloads. canonicalStatus folds both onto the canonical lifecycle values.
var canonicalStatus = map[string]Status{
	"pending":   StatusPending,
	"New":       StatusPending,
	"New Order": StatusPending,
	"preparing": StatusPreparing,
	"Cooking":   StatusPreparing,
	"ready":     StatusReady,
	"Ready":     StatusReady,
	"completed": StatusCompleted,
	"Completed": StatusCompleted,
	"cancelled": StatusCancelled,
	"Cancelled": StatusCancelled,
}

// Canonical maps any backend status spelling to its lifecycle value. The
// second result is false for vocabulary the table does not declare.
func (s Status) Canonical() (Status, bool) {
	c, ok := canonicalStatus[string(s)]
	return c, ok
}

// nextStatuses is the order lifecycle: pending → preparing → ready →
// completed, with cancelled reachable from any non-terminal state.
// completed and cancelled are terminal.
var nextStatuses = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	c, ok := s.Canonical()
	if !ok {
		return false
	}
	return len(nextStatuses[c]) == 0
}

// CanTransition reports whether the backend would accept a request to move an
// order from one status to another. Both spellings are canonicalized first;
// unknown vocabulary never transitions.
func CanTransition(from, to Status) bool {
	f, ok := from.Canonical()
	if !ok {
		return false
	}
	t, ok := to.Canonical()
	if !ok {
		return false
	}
	for _, n := range nextStatuses[f] {
		if n == t {
			return true
		}
	}
	return false
}

// Filter is a staff-facing tab over the active-order list. Filter and Status
// are deliberately separate enumerations joined by filterStatuses; the filter
// vocabulary ("New") does not match the status vocabulary ("New Order").
type Filter string

const (
	FilterAll       Filter = "all"
	FilterNew       Filter = "new"
	FilterCooking   Filter = "cooking"
	FilterReady     Filter = "ready"
	FilterCompleted Filter = "completed"
	FilterCancelled Filter = "cancelled"
)

// filterStatuses declares exactly which status spellings each filter admits.
// The table is the policy: case variants are listed, not folded.
var filterStatuses = map[Filter][]Status{
	FilterNew:       {"New", "New Order", "pending"},
	FilterCooking:   {"Cooking", "preparing"},
	FilterReady:     {"Ready", "ready"},
	FilterCompleted: {"Completed", "completed"},
	FilterCancelled: {"Cancelled", "cancelled"},
}

// ParseFilter folds a query value onto a Filter. The empty string means all.
func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterNew, FilterCooking, FilterReady, FilterCompleted, FilterCancelled:
		return f, true
	}
	return FilterAll, false
}

// Matches reports whether an order with the given status is visible under f.
func (f Filter) Matches(s Status) bool {
	if f == FilterAll {
		return true
	}
	for _, admitted := range filterStatuses[f] {
		if s == admitted {
			return true
		}
	}
	return false
}
