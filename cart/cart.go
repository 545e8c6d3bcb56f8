// Package cart owns the in-progress order for one table/session.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pos-terminal/backend"
	"pos-terminal/models"
	"pos-terminal/notify"
)

var (
	// ErrEmptyCart rejects a submit with no lines. No network call is made.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrEmptyCustomerName rejects a submit whose customer name trims to "".
	ErrEmptyCustomerName = errors.New("customer name is empty")
	// ErrSubmitInFlight rejects a submit while another one is outstanding.
	ErrSubmitInFlight = errors.New("a submit is already in flight")
)

// Store is the cart: an insertion-ordered sequence of lines, at most one per
// product id. All mutations are serialized by the internal mutex; Submit
// releases it around the network call.
type Store struct {
	mu         sync.Mutex
	lines      []models.CartLine
	submitting bool

	backend     backend.Client
	slot        *notify.Slot
	log         *zap.SugaredLogger
	onSubmitted func(models.CreatedOrder)
}

// NewStore builds an empty cart. onSubmitted runs after each successful
// submit (the active-orders view uses it to schedule a refetch); it may be
// nil.
func NewStore(b backend.Client, slot *notify.Slot, log *zap.SugaredLogger, onSubmitted func(models.CreatedOrder)) *Store {
	return &Store{
		backend:     b,
		slot:        slot,
		log:         log,
		onSubmitted: onSubmitted,
	}
}

// AddItem adds one unit of the product: an existing line gets qty+1, a new
// line is appended with qty 1.
func (s *Store) AddItem(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			s.lines[i].Qty++
			return
		}
	}
	s.lines = append(s.lines, models.CartLine{Product: p, Qty: 1})
}

// ChangeQuantity adds delta to the line's qty, floored at 0; a line reaching
// 0 is removed. Unknown product ids are a no-op.
func (s *Store) ChangeQuantity(productID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID != productID {
			continue
		}
		qty := s.lines[i].Qty + delta
		if qty < 0 {
			qty = 0
		}
		if qty == 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Qty = qty
		}
		return
	}
}

// SetNote attaches free text to an existing line; an empty note clears it.
// It never creates a line.
func (s *Store) SetNote(productID int, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines[i].Note = note
			return
		}
	}
}

// Lines returns a copy of the cart in display order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the derived cart value: the sum of price*qty over current lines,
// recomputed on every call.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Submit snapshots the cart and sends it to the backend. Validation failures
// (empty cart, empty trimmed customer name) return before any network call
// and leave the cart untouched. On success the cart is cleared and a success
// notification is set; on transport or backend failure the cart is preserved
// and an error notification is set, carrying the backend's message when it
// provided one.
func (s *Store) Submit(ctx context.Context, table, customerName string) error {
	customerName = strings.TrimSpace(customerName)

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}
	if customerName == "" {
		s.mu.Unlock()
		return ErrEmptyCustomerName
	}
	s.submitting = true
	sub := snapshot(s.lines, table, customerName)
	s.mu.Unlock()

	created, err := s.backend.CreateOrder(ctx, sub)

	s.mu.Lock()
	s.submitting = false
	if err == nil {
		s.lines = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf("submit order for table %s failed: %v", table, err)
		s.slot.Set(notify.KindError, submitErrorMessage(err))
		return err
	}

	name := created.CustomerName
	if name == "" {
		name = customerName
	}
	tbl := created.Table
	if tbl == "" {
		tbl = table
	}
	s.slot.Set(notify.KindSuccess, fmt.Sprintf("Pedido de %s enviado a la mesa %s.", name, tbl))
	s.log.Infof("order %s submitted for table %s", created.ID, tbl)

	if s.onSubmitted != nil {
		s.onSubmitted(created)
	}
	return nil
}

// snapshot copies the cart into an immutable submission payload. Later cart
// mutations must not affect an in-flight submission.
func snapshot(lines []models.CartLine, table, customerName string) models.OrderSubmission {
	items := make([]models.SubmissionItem, 0, len(lines))
	for _, l := range lines {
		item := models.SubmissionItem{
			ProductName: l.Product.Name,
			Quantity:    l.Qty,
			UnitPrice:   l.Product.Price,
		}
		if l.Note != "" {
			note := l.Note
			item.Note = &note
		}
		items = append(items, item)
	}
	return models.OrderSubmission{
		CustomerName: customerName,
		Table:        table,
		Items:        items,
	}
}

func submitErrorMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "No se pudo enviar el pedido. Revisa el backend."
}
