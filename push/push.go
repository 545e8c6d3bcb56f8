// Package push delivers the backend's unsolicited order events to the
// active-orders view, from a WebSocket or a RabbitMQ queue.
package push

import (
	"context"

	"go.uber.org/zap"

	"pos-terminal/middlewares"
	"pos-terminal/models"
	"pos-terminal/orders"
)

// Source feeds push events to a handler until the context ends.
type Source interface {
	Run(ctx context.Context, handle func(context.Context, models.PushEvent)) error
}

// Dispatcher folds push events into the active-orders view.
type Dispatcher struct {
	view *orders.View
	log  *zap.SugaredLogger
}

// NewDispatcher wires a dispatcher to the view.
func NewDispatcher(view *orders.View, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{view: view, log: log}
}

// Dispatch routes one event. Status changes patch the view in place without
// any network call; new orders trigger a full refetch because the push
// payload is incomplete. Unknown event types are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.PushEvent) {
	switch ev.Type {
	case models.EventOrderStatusChanged:
		if ev.Order == nil || ev.Order.ID == "" {
			d.log.Warnf("status change event without order id ignored")
			middlewares.RecordOrderOperation("push_status", false)
			return
		}
		patch := models.StatusPatch{Status: ev.Order.Status}
		if ev.Order.CustomerName != "" {
			patch.CustomerName = &ev.Order.CustomerName
		}
		if ev.Order.Table != "" {
			patch.Table = &ev.Order.Table
		}
		applied := d.view.ApplyStatusChanged(ev.Order.ID, patch)
		if applied {
			d.log.Infof("order %s moved to %s", ev.Order.ID, ev.Order.Status)
		}
		middlewares.RecordOrderOperation("push_status", applied)

	case models.EventOrderNew:
		err := d.view.ApplyNewOrder(ctx)
		middlewares.RecordOrderOperation("push_new", err == nil)

	default:
		d.log.Debugf("ignoring unknown push event type %q", ev.Type)
	}
}
