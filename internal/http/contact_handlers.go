package httpapi

import (
	"errors"
	"net/http"

	"github.com/fairyhunter13/pizzeria-storefront/internal/contact"
)

func (a *App) contactHandler(w http.ResponseWriter, r *http.Request) {
	var f contact.Form
	if !decodeJSON(w, r, &f) {
		return
	}
	m, err := a.Contact.Submit(f)
	var verr *contact.ValidationError
	if errors.As(err, &verr) {
		writeFieldErrors(w, verr.Errors)
		return
	}
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (a *App) listContactHandler(w http.ResponseWriter, r *http.Request) {
	if !a.debugOnly(w) {
		return
	}
	msgs, err := a.Contact.List()
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
