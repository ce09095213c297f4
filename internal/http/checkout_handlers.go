package httpapi

import (
	"errors"
	"net/http"

	"github.com/fairyhunter13/pizzeria-storefront/internal/checkout"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

type checkoutResponse struct {
	Status    string      `json:"status"`
	RequestID string      `json:"request_id"`
	Order     model.Order `json:"order"`
}

func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	var form model.CheckoutForm
	if !decodeJSON(w, r, &form) {
		return
	}
	s := a.currentSession(w, r)
	o, err := a.Checkout.Submit(r.Context(), s, form)
	var verr *checkout.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		writeFieldErrors(w, verr.Errors)
		return
	case errors.Is(err, checkout.ErrEmptyCart):
		WriteJSONError(w, http.StatusConflict, "empty_cart", "add items to your cart first")
		return
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		WriteJSONError(w, http.StatusConflict, "submission_in_flight", "an order is already being placed")
		return
	case errors.Is(err, checkout.ErrClosed):
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, checkoutResponse{
		Status:    "accepted",
		RequestID: RequestIDFromContext(r.Context()),
		Order:     o,
	})
}

func (a *App) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, ok, err := a.Store.GetOrder(r.PathValue("id"))
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
