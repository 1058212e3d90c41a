package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ControlID is the stable identity of a UI control
type ControlID string

const (
	ControlProductAdd       ControlID = "product-add"
	ControlProductDetails   ControlID = "product-details"
	ControlModalClose       ControlID = "modal-close"
	ControlCartOpen         ControlID = "cart-open"
	ControlCartClose        ControlID = "cart-close"
	ControlQuantityDecrease ControlID = "quantity-decrease"
	ControlQuantityIncrease ControlID = "quantity-increase"
	ControlCartRemove       ControlID = "cart-remove"
	ControlPlaceOrder       ControlID = "place-order"
	ControlSearch           ControlID = "search-input"
	ControlCategoryFilter   ControlID = "category-filter"
	ControlDarkMode         ControlID = "dark-mode-toggle"
	ControlLogout           ControlID = "logout"
	ControlLogin            ControlID = "login"
)

// Control binds a control to the route that activates it
type Control struct {
	ID      ControlID
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// ControlTable is built once at startup
type ControlTable struct {
	controls []Control
	byID     map[ControlID]Control
}

func NewControlTable(controls []Control) *ControlTable {
	t := &ControlTable{
		controls: controls,
		byID:     make(map[ControlID]Control, len(controls)),
	}
	for _, c := range controls {
		t.byID[c.ID] = c
	}
	return t
}

// All returns the controls in registration order
func (t *ControlTable) All() []Control {
	return t.controls
}

// Path fills the route pattern's {params} with args, in order
func (t *ControlTable) Path(id ControlID, args ...any) (string, error) {
	c, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("unknown control %q", id)
	}

	var b strings.Builder
	rest := c.Pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("control %q: malformed pattern %q", id, c.Pattern)
		}
		if len(args) == 0 {
			return "", fmt.Errorf("control %q: missing argument for %s", id, rest[open:open+end+1])
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(fmt.Sprint(args[0])))
		args = args[1:]
		rest = rest[open+end+1:]
	}
	if len(args) > 0 {
		return "", fmt.Errorf("control %q: too many arguments", id)
	}
	return b.String(), nil
}
