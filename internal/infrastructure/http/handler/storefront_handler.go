package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/app/service"
	"github.com/mrops-br/storefront/internal/app/storefront"
	"github.com/mrops-br/storefront/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront/internal/infrastructure/http/response"
)

//go:embed templates/*.html
var templateFS embed.FS

// flashCookie carries a blocking notice across a redirect
const flashCookie = "storefront_flash"

var errInvalidProductID = errors.New("invalid product id")

// Categories are the filter buttons shown above the product grid
var Categories = []string{storefront.AllCategories, "men", "women", "kids", "accessories"}

// StorefrontHandler handles HTTP requests for the storefront page
type StorefrontHandler struct {
	service   *service.StorefrontService
	logger    *slog.Logger
	loginPath string
	controls  *ControlTable
	templates *template.Template
}

// NewStorefrontHandler creates a new storefront handler and its control table
func NewStorefrontHandler(svc *service.StorefrontService, loginPath string, logger *slog.Logger) (*StorefrontHandler, error) {
	h := &StorefrontHandler{
		service:   svc,
		logger:    logger,
		loginPath: loginPath,
	}

	h.controls = NewControlTable([]Control{
		{ControlProductAdd, http.MethodPost, "/products/{id}/add", h.AddToCart},
		{ControlProductDetails, http.MethodPost, "/products/{id}/details", h.ViewDetails},
		{ControlModalClose, http.MethodPost, "/modal/close", h.CloseModal},
		{ControlCartOpen, http.MethodPost, "/cart/open", h.OpenCart},
		{ControlCartClose, http.MethodPost, "/cart/close", h.CloseCart},
		{ControlQuantityDecrease, http.MethodPost, "/cart/items/{id}/decrease", h.DecreaseQuantity},
		{ControlQuantityIncrease, http.MethodPost, "/cart/items/{id}/increase", h.IncreaseQuantity},
		{ControlCartRemove, http.MethodPost, "/cart/items/{id}/remove", h.RemoveFromCart},
		{ControlPlaceOrder, http.MethodPost, "/checkout", h.PlaceOrder},
		{ControlSearch, http.MethodPost, "/search", h.Search},
		{ControlCategoryFilter, http.MethodPost, "/filter/{category}", h.FilterCategory},
		{ControlDarkMode, http.MethodPost, "/ui/dark-mode", h.ToggleDarkMode},
		{ControlLogout, http.MethodPost, "/logout", h.Logout},
		{ControlLogin, http.MethodPost, loginPath, h.Login},
	})

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"control": func(id string, args ...any) (string, error) {
			return h.controls.Path(ControlID(id), args...)
		},
		"categories": func() []string { return Categories },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	h.templates = tmpl

	return h, nil
}

// Controls exposes the control registration table
func (h *StorefrontHandler) Controls() *ControlTable {
	return h.controls
}

// Routes mounts the pages and every registered control
func (h *StorefrontHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/api/page", h.PageJSON)
	r.Get(h.loginPath, h.LoginPage)

	for _, c := range h.controls.All() {
		r.Method(c.Method, c.Pattern, c.Handler)
	}
}

// Index handles GET /
func (h *StorefrontHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), clientID(r))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if msg := takeFlash(w, r); msg != "" {
		page.Alert = msg
	}
	h.render(w, r, "index.html", page)
}

// PageJSON handles GET /api/page
func (h *StorefrontHandler) PageJSON(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), clientID(r))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

// LoginPage handles GET /login
func (h *StorefrontHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]string{
		"Alert": takeFlash(w, r),
	})
}

func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	page, err := h.service.AddToCart(r.Context(), clientID(r), id)
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) ViewDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	page, err := h.service.ViewDetails(r.Context(), clientID(r), id)
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.CloseModal(r.Context(), clientID(r))
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.OpenCart(r.Context(), clientID(r))
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.CloseCart(r.Context(), clientID(r))
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, 1)
}

func (h *StorefrontHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, -1)
}

func (h *StorefrontHandler) changeQuantity(w http.ResponseWriter, r *http.Request, delta int) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	page, err := h.service.ChangeQuantity(r.Context(), clientID(r), id, delta)
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	page, err := h.service.RemoveFromCart(r.Context(), clientID(r), id)
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Search(r.Context(), clientID(r), r.FormValue("q"))
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) FilterCategory(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.FilterCategory(r.Context(), clientID(r), chi.URLParam(r, "category"))
	h.respond(w, r, page, err)
}

func (h *StorefrontHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ToggleDarkMode(r.Context(), clientID(r))
	h.respond(w, r, page, err)
}

// PlaceOrder handles POST /checkout
func (h *StorefrontHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.PlaceOrder(r.Context(), clientID(r))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if response.WantsJSON(r) {
		response.JSON(w, http.StatusOK, res)
		return
	}

	setFlash(w, res.Message)
	target := "/"
	if res.Redirect != "" {
		target = res.Redirect
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login handles POST /login
func (h *StorefrontHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to decode request body",
				slog.String("error", err.Error()),
			)
			response.Error(w, http.StatusBadRequest, err)
			return
		}
	} else {
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
	}

	page, err := h.service.Login(r.Context(), clientID(r), req.Name, req.Email)
	if err != nil && !response.WantsJSON(r) && response.StatusFor(err) == http.StatusBadRequest {
		setFlash(w, "Please enter your name.")
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}
	h.respond(w, r, page, err)
}

// Logout handles POST /logout
func (h *StorefrontHandler) Logout(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Logout(r.Context(), clientID(r))
	h.respond(w, r, page, err)
}

// respond answers JSON callers with the page, and browsers with a redirect
// back to the page (carrying any alert in the flash cookie)
func (h *StorefrontHandler) respond(w http.ResponseWriter, r *http.Request, page *dto.PageView, err error) {
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if response.WantsJSON(r) {
		response.JSON(w, http.StatusOK, page)
		return
	}

	if page.Alert != "" {
		setFlash(w, page.Alert)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *StorefrontHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

func (h *StorefrontHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, errInvalidProductID)
		return 0, false
	}
	return id, true
}

func clientID(r *http.Request) string {
	return middleware.ClientIDFromRequest(r.Context())
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the flash cookie
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
