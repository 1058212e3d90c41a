// Package storefront holds the state of one shopper's storefront page:
// the cart engine, the rendered catalog, the cart sidebar, the details
// modal, the session display and the checkout flow.
//
// A Storefront is not safe for concurrent use. Each operation runs to
// completion against the state left by the previous one.
package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/domain"
)

// AllCategories is the category token that disables filtering
const AllCategories = "all"

// Catalog is the read side of the product catalog
type Catalog interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type Options struct {
	StoreName     string
	LoginPath     string
	ToastDuration time.Duration
	// Now defaults to time.Now
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.StoreName == "" {
		o.StoreName = "BestwearMall"
	}
	if o.LoginPath == "" {
		o.LoginPath = "/login"
	}
	if o.ToastDuration <= 0 {
		o.ToastDuration = 2500 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Storefront is the application state of one client
type Storefront struct {
	catalog Catalog
	store   domain.StateStore
	opts    Options

	cart    domain.Cart
	session *domain.Session
	account dto.SessionView

	cards          []dto.ProductCard
	displayedCount int
	sidebarOpen    bool
	modal          *dto.DetailsView
	toast          string
	toastUntil     time.Time
	alert          string
	category       string
	search         string
	darkMode       bool
}

// Open loads the client's cart and session from the store and derives the
// session display. Products are not drawn until ShowCatalog is called.
func Open(ctx context.Context, catalog Catalog, store domain.StateStore, opts Options) (*Storefront, error) {
	cart, err := store.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	session, err := store.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &Storefront{
		catalog:  catalog,
		store:    store,
		opts:     opts.withDefaults(),
		cart:     cart,
		session:  session,
		category: AllCategories,
	}
	s.account = s.sessionDisplay()
	return s, nil
}

// ShowCatalog draws the full catalog and refreshes the cart badge.
// It runs once the catalog has been loaded.
func (s *Storefront) ShowCatalog(ctx context.Context) error {
	products, err := s.catalog.FindAll(ctx)
	if err != nil {
		return err
	}
	s.category = AllCategories
	s.search = ""
	s.render(products)
	s.refreshCount()
	return nil
}

// Search redraws the catalog with products whose name contains term
func (s *Storefront) Search(ctx context.Context, term string) error {
	products, err := s.catalog.FindAll(ctx)
	if err != nil {
		return err
	}
	s.search = term
	s.category = AllCategories
	s.render(Filter(products, MatchName(term)))
	return nil
}

// FilterCategory redraws the catalog with one category, or everything
// for AllCategories
func (s *Storefront) FilterCategory(ctx context.Context, category string) error {
	products, err := s.catalog.FindAll(ctx)
	if err != nil {
		return err
	}
	s.category = category
	s.search = ""
	s.render(Filter(products, MatchCategory(category)))
	return nil
}

func (s *Storefront) OpenCart() {
	s.sidebarOpen = true
}

func (s *Storefront) CloseCart() {
	s.sidebarOpen = false
}

// ToggleDarkMode flips the visual theme. It is never persisted.
func (s *Storefront) ToggleDarkMode() {
	s.darkMode = !s.darkMode
}

// Alert sets a blocking notice delivered with the next page
func (s *Storefront) Alert(msg string) {
	s.alert = msg
}

// Page renders the current state. A pending alert is delivered once.
func (s *Storefront) Page() *dto.PageView {
	now := s.opts.Now()

	page := &dto.PageView{
		StoreName:      s.opts.StoreName,
		Products:       append([]dto.ProductCard{}, s.cards...),
		CartCount:      s.displayedCount,
		Cart:           RenderCart(s.cart, s.sidebarOpen),
		Session:        s.account,
		Alert:          s.alert,
		ActiveCategory: s.category,
		Search:         s.search,
		DarkMode:       s.darkMode,
	}
	if s.modal != nil {
		modal := *s.modal
		page.Modal = &modal
	}
	if s.toast != "" && now.Before(s.toastUntil) {
		page.Toast = s.toast
		page.ToastMillis = s.toastUntil.Sub(now).Milliseconds()
	}

	s.alert = ""
	return page
}

func (s *Storefront) render(products []domain.Product) {
	s.cards = RenderProducts(products)
}

func (s *Storefront) refreshCount() {
	s.displayedCount = s.cart.Count()
}

func (s *Storefront) showToast(msg string) {
	s.toast = msg
	s.toastUntil = s.opts.Now().Add(s.opts.ToastDuration)
}
