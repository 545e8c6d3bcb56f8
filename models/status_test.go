package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalFoldsBothVocabularies(t *testing.T) {
	cases := map[Status]Status{
		"pending":   StatusPending,
		"New Order": StatusPending,
		"New":       StatusPending,
		"preparing": StatusPreparing,
		"Cooking":   StatusPreparing,
		"ready":     StatusReady,
		"Ready":     StatusReady,
		"completed": StatusCompleted,
		"Completed": StatusCompleted,
		"cancelled": StatusCancelled,
		"Cancelled": StatusCancelled,
	}
	for raw, want := range cases {
		got, ok := raw.Canonical()
		assert.True(t, ok, "status %q", raw)
		assert.Equal(t, want, got, "status %q", raw)
	}

	_, ok := Status("shipped").Canonical()
	assert.False(t, ok)
}

func TestLifecycleTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPreparing))
	assert.True(t, CanTransition(StatusPreparing, StatusReady))
	assert.True(t, CanTransition(StatusReady, StatusCompleted))

	// cancelled is reachable from any non-terminal state.
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusPreparing, StatusCancelled))
	assert.True(t, CanTransition(StatusReady, StatusCancelled))

	// No skipping forward or moving backward.
	assert.False(t, CanTransition(StatusPending, StatusReady))
	assert.False(t, CanTransition(StatusReady, StatusPending))
	assert.False(t, CanTransition(StatusPreparing, StatusCompleted))

	// Terminal states have no exits.
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
}

func TestTransitionsAcceptDisplayVocabulary(t *testing.T) {
	assert.True(t, CanTransition("New Order", "Cooking"))
	assert.True(t, CanTransition("Cooking", "Ready"))
	assert.True(t, CanTransition("Ready", "Completed"))
	assert.False(t, CanTransition("New Order", "Ready"))
	assert.False(t, CanTransition("Completed", "Cooking"))
	assert.False(t, CanTransition("shipped", "ready"))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, Status("Cancelled").Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, Status("New Order").Terminal())
	assert.False(t, Status("bogus").Terminal())
}

func TestParseFilter(t *testing.T) {
	for raw, want := range map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		"All":       FilterAll,
		"new":       FilterNew,
		"New":       FilterNew,
		" Ready ":   FilterReady,
		"COOKING":   FilterCooking,
		"completed": FilterCompleted,
		"cancelled": FilterCancelled,
	} {
		got, ok := ParseFilter(raw)
		assert.True(t, ok, "filter %q", raw)
		assert.Equal(t, want, got, "filter %q", raw)
	}

	_, ok := ParseFilter("shipped")
	assert.False(t, ok)
}

func TestFilterMatches(t *testing.T) {
	assert.True(t, FilterAll.Matches("anything at all"))

	// The "New" tab matches the literal "New Order" status.
	assert.True(t, FilterNew.Matches("New Order"))
	assert.True(t, FilterNew.Matches("pending"))
	assert.False(t, FilterNew.Matches("Ready"))

	assert.True(t, FilterReady.Matches("Ready"))
	assert.True(t, FilterReady.Matches("ready"))
	assert.False(t, FilterReady.Matches("New Order"))
	assert.False(t, FilterReady.Matches("READY"), "only declared spellings match")

	assert.True(t, FilterCooking.Matches("preparing"))
	assert.False(t, FilterCooking.Matches("ready"))
}

func TestTimeLabel(t *testing.T) {
	var o ActiveOrder
	assert.Empty(t, o.TimeLabel())
}
