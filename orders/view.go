// Package orders keeps the staff-facing collection of submitted orders in
// sync with the backend: wholesale refetches plus incremental push patches.
package orders

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pos-terminal/backend"
	"pos-terminal/models"
)

// View is the active-order collection, keyed by the backend's full order id
// with insertion order preserved for display.
//
// Reconciliation policy: every applied push patch bumps a monotonic clock and
// stamps its order. A refetch records the clock when it starts; when it
// completes, the fetched snapshot replaces the collection wholesale, except
// that orders patched after the refetch started keep their patched fields.
// A stale snapshot can therefore never roll back a newer push patch.
type View struct {
	mu        sync.Mutex
	byID      map[string]*models.ActiveOrder
	insertion []string
	loading   bool
	filter    models.Filter

	patchClock uint64
	patchedAt  map[string]uint64

	backend backend.Client
	log     *zap.SugaredLogger
}

// NewView builds an empty view showing all statuses.
func NewView(b backend.Client, log *zap.SugaredLogger) *View {
	return &View{
		byID:      make(map[string]*models.ActiveOrder),
		patchedAt: make(map[string]uint64),
		filter:    models.FilterAll,
		backend:   b,
		log:       log,
	}
}

// Refetch replaces the collection with the backend's current list. Failures
// are soft: the stale view stays visible and the error is only logged and
// returned for metrics.
func (v *View) Refetch(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	started := v.patchClock
	v.mu.Unlock()

	fetched, err := v.backend.FetchActiveOrders(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.log.Warnf("refetch active orders failed, keeping stale view: %v", err)
		return err
	}

	byID := make(map[string]*models.ActiveOrder, len(fetched))
	insertion := make([]string, 0, len(fetched))
	for i := range fetched {
		o := fetched[i]
		if o.FullID == "" {
			v.log.Warnf("dropping fetched order %q without fullId", o.ID)
			continue
		}
		if _, dup := byID[o.FullID]; dup {
			continue
		}
		// An order patched after this refetch started keeps its patched
		// fields over the stale snapshot.
		if prev, ok := v.byID[o.FullID]; ok && v.patchedAt[o.FullID] > started {
			o.Status = prev.Status
			o.CustomerName = prev.CustomerName
			o.Table = prev.Table
		}
		byID[o.FullID] = &o
		insertion = append(insertion, o.FullID)
	}

	v.byID = byID
	v.insertion = insertion
	for id := range v.patchedAt {
		if _, ok := byID[id]; !ok {
			delete(v.patchedAt, id)
		}
	}
	return nil
}

// ApplyStatusChanged patches a tracked order in place. Unknown full ids are a
// no-op: a partial push payload must never become a new record. It reports
// whether a patch was applied.
func (v *View) ApplyStatusChanged(fullID string, patch models.StatusPatch) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	o, ok := v.byID[fullID]
	if !ok {
		v.log.Debugf("status change for unknown order %s ignored", fullID)
		return false
	}
	if patch.Status != "" {
		o.Status = patch.Status
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.Table != nil {
		o.Table = *patch.Table
	}
	v.patchClock++
	v.patchedAt[fullID] = v.patchClock
	return true
}

// ApplyNewOrder reacts to an ORDER_NEW push by refetching the whole list.
// The push payload is known to be incomplete, so consistency wins over
// latency here.
func (v *View) ApplyNewOrder(ctx context.Context) error {
	return v.Refetch(ctx)
}

// SetFilter switches the staff-facing status tab.
func (v *View) SetFilter(f models.Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

// Filter returns the current status tab.
func (v *View) Filter() models.Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Loading reports whether a refetch is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Get returns a copy of one tracked order.
func (v *View) Get(fullID string) (models.ActiveOrder, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	o, ok := v.byID[fullID]
	if !ok {
		return models.ActiveOrder{}, false
	}
	return *o, true
}

// Orders returns the orders visible under the current filter, in insertion
// order.
func (v *View) Orders() []models.ActiveOrder {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible(v.filter)
}

// OrdersFor returns the orders visible under an explicit filter, without
// touching the view's own tab.
func (v *View) OrdersFor(f models.Filter) []models.ActiveOrder {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible(f)
}

func (v *View) visible(f models.Filter) []models.ActiveOrder {
	out := make([]models.ActiveOrder, 0, len(v.insertion))
	for _, id := range v.insertion {
		o := v.byID[id]
		if f.Matches(o.Status) {
			out = append(out, *o)
		}
	}
	return out
}

// Counts returns the per-tab order counts (the kitchen screen's tab badges).
func (v *View) Counts() map[models.Filter]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	counts := make(map[models.Filter]int)
	for _, f := range []models.Filter{
		models.FilterAll, models.FilterNew, models.FilterCooking,
		models.FilterReady, models.FilterCompleted, models.FilterCancelled,
	} {
		counts[f] = len(v.visible(f))
	}
	return counts
}
