package storefront

import (
	"math"
	"strconv"
	"strings"

	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const maxStars = 5

// FilledStars rounds the rating (DefaultRating when absent) to the nearest
// whole star, halves rounding up, within 0..5
func FilledStars(p domain.Product) int {
	r := math.Round(p.EffectiveRating())
	if !(r > 0) {
		return 0
	}
	if r > maxStars {
		return maxStars
	}
	return int(r)
}

// Stars draws filled stars followed by empty ones, five in total
func Stars(filled int) string {
	return strings.Repeat("★", filled) + strings.Repeat("☆", maxStars-filled)
}

// FormatPrice renders an amount in Kenyan shillings, e.g. "Ksh 1,000.00".
// Digits come from the decimal itself; only the whole part is grouped.
func FormatPrice(amount decimal.Decimal) string {
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")

	sign := ""
	if rest, ok := strings.CutPrefix(whole, "-"); ok {
		sign, whole = "-", rest
	}
	// beyond int64 the whole part is left ungrouped
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = message.NewPrinter(language.English).Sprint(number.Decimal(n))
	}
	return "Ksh " + sign + whole + "." + frac
}

// RenderProducts turns products into cards, keeping the given order
func RenderProducts(products []domain.Product) []dto.ProductCard {
	cards := make([]dto.ProductCard, 0, len(products))
	for _, p := range products {
		filled := FilledStars(p)
		cards = append(cards, dto.ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Image:       p.Image,
			Category:    p.Category,
			Stars:       Stars(filled),
			FilledStars: filled,
			Price:       p.Price,
			PriceLabel:  FormatPrice(p.Price),
		})
	}
	return cards
}

// RenderCart draws the cart sidebar
func RenderCart(cart domain.Cart, open bool) dto.CartView {
	view := dto.CartView{
		Open:       open,
		Lines:      make([]dto.CartLine, 0, len(cart)),
		Empty:      cart.IsEmpty(),
		Total:      cart.Total(),
		TotalLabel: FormatPrice(cart.Total()),
	}
	for _, item := range cart {
		view.Lines = append(view.Lines, dto.CartLine{
			ID:         item.ID,
			Name:       item.Name,
			Image:      item.Image,
			Quantity:   item.Quantity,
			PriceLabel: FormatPrice(item.Price),
		})
	}
	return view
}

// Predicate selects products for display
type Predicate func(domain.Product) bool

// MatchName matches names containing term, ignoring case
func MatchName(term string) Predicate {
	term = strings.ToLower(term)
	return func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	}
}

// MatchCategory matches one category exactly; AllCategories matches everything
func MatchCategory(category string) Predicate {
	return func(p domain.Product) bool {
		return category == AllCategories || p.Category == category
	}
}

// Filter keeps the products pred accepts, in order
func Filter(products []domain.Product, pred Predicate) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
