package models

import (
	"time"
)

// Product is an immutable catalog entry. Prices are integer minor currency
// units (pesos), never floats.
type Product struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Desc  string `json:"desc"`
	Image string `json:"image"`
}

// CartLine is one product in the in-progress cart. At most one line exists
// per product id; Qty stays >= 1 while the line is present.
type CartLine struct {
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
	Note    string  `json:"note,omitempty"`
}

// Subtotal is price*qty for this line.
func (l CartLine) Subtotal() int {
	return l.Product.Price * l.Qty
}

// SubmissionItem is one line of an outbound order, snapshotted from the cart
// at submit time. Note is null on the wire when no note was attached.
type SubmissionItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   int     `json:"unitPrice"`
	Note        *string `json:"note"`
}

// OrderSubmission is the payload sent to the backend on submit. Once built it
// is decoupled from the cart; later cart mutations must not affect it.
type OrderSubmission struct {
	CustomerName string           `json:"customerName"`
	Table        string           `json:"table"`
	Items        []SubmissionItem `json:"items"`
}

// CreatedOrder is the backend's response to a successful submission.
type CreatedOrder struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Table        string    `json:"table"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActiveOrder is a submitted order as tracked by staff-facing views. Identity
// and status are owned by the backend; the terminal only renders them.
type ActiveOrder struct {
	FullID       string    `json:"fullId"`
	ID           string    `json:"id"`
	Table        string    `json:"table"`
	CustomerName string    `json:"customerName"`
	ItemCount    int       `json:"itemCount"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TimeLabel is the derived clock-time display value for order cards.
func (o ActiveOrder) TimeLabel() string {
	if o.CreatedAt.IsZero() {
		return ""
	}
	return o.CreatedAt.Format("3:04 PM")
}

// StatusPatch carries the fields a push event may replace in place on a
// tracked order. Nil pointers leave the current value untouched.
type StatusPatch struct {
	Status       Status
	CustomerName *string
	Table        *string
}

// Push event types delivered by the backend. Unknown types must be ignored.
const (
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventOrderNew           = "ORDER_NEW"
)

// PushEvent is the envelope of a backend push message.
type PushEvent struct {
	Type  string     `json:"type"`
	Order *PushOrder `json:"order"`
}

// PushOrder is the partial order carried by a push event. ID is the full
// backend identity. The payload is known to be incomplete for new orders,
// which is why ORDER_NEW triggers a refetch instead of an insert.
type PushOrder struct {
	ID           string `json:"id"`
	Status       Status `json:"status"`
	CustomerName string `json:"customerName"`
	Table        string `json:"table"`
}

// UpdateResponse is the backend's reply to an order edit.
type UpdateResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Error   *UpdateError `json:"error,omitempty"`
}

// UpdateError is the structured failure detail of an UpdateResponse.
type UpdateError struct {
	Message string `json:"message"`
}

// ErrorMessage returns the most specific failure text the backend provided,
// or "" when there is none.
func (r UpdateResponse) ErrorMessage() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	return r.Message
}
