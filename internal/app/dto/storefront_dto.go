package dto

import "github.com/shopspring/decimal"

// ProductCard is one rendered catalog entry
type ProductCard struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stars       string          `json:"stars"`
	FilledStars int             `json:"filled_stars"`
	Price       decimal.Decimal `json:"price"`
	PriceLabel  string          `json:"price_label"`
}

// CartLine is one rendered cart line
type CartLine struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
	PriceLabel string `json:"price_label"`
}

// CartView is the rendered cart sidebar
type CartView struct {
	Open       bool            `json:"open"`
	Lines      []CartLine      `json:"lines"`
	Empty      bool            `json:"empty"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"total_label"`
}

// DetailsView is the expanded product shown in the modal
type DetailsView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Stars       string `json:"stars"`
	PriceLabel  string `json:"price_label"`
	StockLabel  string `json:"stock_label"`
	Description string `json:"description"`
	CanAdd      bool   `json:"can_add"`
}

// SessionView drives the login/logout affordance
type SessionView struct {
	LoggedIn bool   `json:"logged_in"`
	Name     string `json:"name,omitempty"`
	Greeting string `json:"greeting,omitempty"`
	LoginURL string `json:"login_url,omitempty"`
}

// PageView is everything needed to draw a client's storefront page
type PageView struct {
	StoreName      string        `json:"store_name"`
	Products       []ProductCard `json:"products"`
	CartCount      int           `json:"cart_count"`
	Cart           CartView      `json:"cart"`
	Modal          *DetailsView  `json:"modal,omitempty"`
	Session        SessionView   `json:"session"`
	Toast          string        `json:"toast,omitempty"`
	ToastMillis    int64         `json:"toast_ms,omitempty"`
	Alert          string        `json:"alert,omitempty"`
	ActiveCategory string        `json:"active_category"`
	Search         string        `json:"search"`
	DarkMode       bool          `json:"dark_mode"`
}

// OrderResponse is returned by the place-order control
type OrderResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Redirect string    `json:"redirect,omitempty"`
	Page     *PageView `json:"page"`
}
