package httpapi

import (
	"errors"
	"net/http"

	"github.com/fairyhunter13/pizzeria-storefront/internal/cart"
	"github.com/fairyhunter13/pizzeria-storefront/internal/catalog"
	"github.com/fairyhunter13/pizzeria-storefront/internal/session"
)

type cartResponse struct {
	Cart          cart.Snapshot `json:"cart"`
	Notifications []string      `json:"notifications"`
}

func writeCart(w http.ResponseWriter, s *session.Session) {
	n := s.Notifications()
	if n == nil {
		n = []string{}
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: s.Cart.Snapshot(), Notifications: n})
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	writeCart(w, a.currentSession(w, r))
}

type addItemRequest struct {
	ID string `json:"id"`
}

func (a *App) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "id is required")
		return
	}
	it, err := a.Catalog.Get(r.Context(), req.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "unknown menu item")
		return
	}
	if err != nil {
		writeBackendError(w, r, "get_menu_item", err)
		return
	}
	s := a.currentSession(w, r)
	s.Cart.AddItem(it)
	writeCart(w, s)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (a *App) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantity is required")
		return
	}
	s := a.currentSession(w, r)
	s.Cart.UpdateQuantity(r.PathValue("id"), *req.Quantity)
	writeCart(w, s)
}

func (a *App) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s := a.currentSession(w, r)
	s.Cart.RemoveItem(r.PathValue("id"))
	writeCart(w, s)
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	s := a.currentSession(w, r)
	s.Cart.Clear()
	writeCart(w, s)
}
