package storefront

import (
	"context"
	"fmt"

	"github.com/mrops-br/storefront/internal/domain"
)

type OrderStatus string

const (
	OrderLoginRequired OrderStatus = "login_required"
	OrderEmptyCart     OrderStatus = "empty_cart"
	OrderPlaced        OrderStatus = "placed"
)

const (
	msgLoginRequired = "⚠️ Please log in to complete your order."
	msgEmptyCart     = "Your cart is empty!"
	msgOrderPlaced   = "✅ Thank you %s! Your order has been placed successfully."
)

// OrderOutcome is what the shopper is told after place-order.
// Redirect is set when the shopper must be sent to the login page.
type OrderOutcome struct {
	Status   OrderStatus
	Message  string
	Redirect string
}

// PlaceOrder requires a session, then a non-empty cart. Only a placed order
// changes state: the stored cart is deleted, the cart emptied and the
// sidebar closed.
func (s *Storefront) PlaceOrder(ctx context.Context) (OrderOutcome, error) {
	if s.session == nil {
		s.Alert(msgLoginRequired)
		return OrderOutcome{
			Status:   OrderLoginRequired,
			Message:  msgLoginRequired,
			Redirect: s.opts.LoginPath,
		}, nil
	}

	if s.cart.IsEmpty() {
		s.Alert(msgEmptyCart)
		return OrderOutcome{Status: OrderEmptyCart, Message: msgEmptyCart}, nil
	}

	if err := s.store.ClearCart(ctx); err != nil {
		return OrderOutcome{}, fmt.Errorf("clear cart: %w", err)
	}

	msg := fmt.Sprintf(msgOrderPlaced, s.session.Name)
	s.Alert(msg)
	s.cart = domain.Cart{}
	s.refreshCount()
	s.CloseCart()

	return OrderOutcome{Status: OrderPlaced, Message: msg}, nil
}
