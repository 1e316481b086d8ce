package models

import "github.com/example/jewelrystore/pkg/store"

// OrderItem is a line item inside an order. unit_price and title are
// snapshots taken at submission time and are never re-derived from the
// referenced product.
type OrderItem struct {
	ProductID string   `json:"product_id" validate:"required"`
	Quantity  *int     `json:"quantity" validate:"omitempty,gte=1"`
	UnitPrice *float64 `json:"unit_price" validate:"required,gte=0"`
	Title     string   `json:"title" validate:"required"`
}

// CreateOrder is the inbound payload for order submission. total_amount
// is caller-supplied and stored as-is; it is not cross-checked against
// the items.
type CreateOrder struct {
	CustomerName    string      `json:"customer_name" validate:"required"`
	CustomerEmail   string      `json:"customer_email" validate:"required"`
	CustomerPhone   *string     `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address" validate:"required"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64    `json:"total_amount" validate:"required,gte=0"`
	Notes           *string     `json:"notes"`
}

// Normalize resolves the per-item quantity default of 1.
func (o *CreateOrder) Normalize() {
	for i := range o.Items {
		if o.Items[i].Quantity == nil {
			quantity := 1
			o.Items[i].Quantity = &quantity
		}
	}
}

// Document flattens the payload for persistence. Normalize must have run
// first.
func (o CreateOrder) Document() store.Document {
	items := make([]store.Document, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, store.Document{
			"product_id": item.ProductID,
			"quantity":   *item.Quantity,
			"unit_price": *item.UnitPrice,
			"title":      item.Title,
		})
	}

	return store.Document{
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_phone":   optString(o.CustomerPhone),
		"shipping_address": o.ShippingAddress,
		"items":            items,
		"total_amount":     *o.TotalAmount,
		"notes":            optString(o.Notes),
	}
}
