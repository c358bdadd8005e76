package model

// DateLayout is the wire format for delivery dates (date only, no time).
const DateLayout = "2006-01-02"

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderPacked    OrderStatus = "Packed"
	OrderDelivered OrderStatus = "Delivered"
)

var validOrderStatuses = map[OrderStatus]bool{
	OrderPending:   true,
	OrderConfirmed: true,
	OrderPacked:    true,
	OrderDelivered: true,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	return validOrderStatuses[s]
}

type LineItem struct {
	SKU      SKU `yaml:"sku"`
	Quantity int `yaml:"quantity"`
}

// Order is an open customer order. DeliveryDate is YYYY-MM-DD, empty when
// no date has been set.
type Order struct {
	ID           string      `yaml:"id"`
	CustomerName string      `yaml:"customer_name"`
	Status       OrderStatus `yaml:"status"`
	DeliveryDate string      `yaml:"delivery_date,omitempty"`
	LineItems    []LineItem  `yaml:"line_items"`
	CreatedAt    string      `yaml:"created_at"`
}

// Actionable reports whether the order participates in allocation.
// Packed and Delivered orders no longer drive production.
func (o Order) Actionable() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}
