package domain

import "github.com/shopspring/decimal"

// LineItem aggregates one product with a quantity.
// Name, price and image are copied from the product when the line is created
// and are never refreshed afterwards: the cart keeps the price at purchase.
type LineItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// NewLineItem snapshots a product into a line with quantity 1
func NewLineItem(p Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}

// Subtotal is price × quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered list of line items, in insertion order,
// holding at most one line per product id.
type Cart []LineItem

// Find returns the index of the line for productID, or -1
func (c Cart) Find(productID int) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Without returns a copy of the cart with the line for productID removed
func (c Cart) Without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// Count is the sum of all quantities
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// Total is the sum of price × quantity over all lines
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
