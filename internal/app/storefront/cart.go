package storefront

import (
	"context"
	"errors"

	"github.com/mrops-br/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// AddToCart puts one unit of a product in the cart, opens the sidebar and
// shows a confirmation toast. Unknown products are ignored.
func (s *Storefront) AddToCart(ctx context.Context, productID int) error {
	product, err := s.catalog.FindByID(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	next := s.Cart()
	if i := next.Find(productID); i >= 0 {
		// the existing snapshot is kept, only the quantity moves
		next[i].Quantity++
	} else {
		next = append(next, domain.NewLineItem(*product))
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.refreshCount()
	s.OpenCart()
	s.showToast(product.Name + " added to cart")
	return nil
}

// ChangeQuantity adds delta to a line's quantity, removing the line when it
// drops to zero or below. Absent lines are ignored.
func (s *Storefront) ChangeQuantity(ctx context.Context, productID, delta int) error {
	i := s.cart.Find(productID)
	if i < 0 {
		return nil
	}

	if s.cart[i].Quantity+delta <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	next := s.Cart()
	next[i].Quantity += delta

	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.refreshCount()
	return nil
}

// RemoveFromCart drops a product's line. Removing an absent line still
// persists and redraws, leaving the cart unchanged.
func (s *Storefront) RemoveFromCart(ctx context.Context, productID int) error {
	if err := s.commit(ctx, s.cart.Without(productID)); err != nil {
		return err
	}
	s.refreshCount()
	return nil
}

// CartTotal is the sum of price × quantity
func (s *Storefront) CartTotal() decimal.Decimal {
	return s.cart.Total()
}

// CartCount is the sum of quantities
func (s *Storefront) CartCount() int {
	return s.cart.Count()
}

// Cart returns a copy of the line items in insertion order
func (s *Storefront) Cart() domain.Cart {
	out := make(domain.Cart, len(s.cart))
	copy(out, s.cart)
	return out
}

// commit stores next and only then makes it the current cart
func (s *Storefront) commit(ctx context.Context, next domain.Cart) error {
	if err := s.store.SaveCart(ctx, next); err != nil {
		return err
	}
	s.cart = next
	return nil
}
