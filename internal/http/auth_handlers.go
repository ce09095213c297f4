package httpapi

import (
	"errors"
	"net/http"

	"github.com/fairyhunter13/pizzeria-storefront/internal/auth"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/supabase"
)

type authView struct {
	Authenticated bool           `json:"authenticated"`
	UserID        string         `json:"user_id,omitempty"`
	Email         string         `json:"email,omitempty"`
	DisplayName   string         `json:"display_name,omitempty"`
	Profile       *model.Profile `json:"profile,omitempty"`
}

type authResponse struct {
	User          authView `json:"user"`
	Notifications []string `json:"notifications"`
}

func viewOf(st auth.State) authView {
	v := authView{Authenticated: st.Authenticated(), DisplayName: st.DisplayName(), Profile: st.Profile}
	if st.Session != nil {
		v.UserID = st.Session.UserID
		v.Email = st.Session.Email
	}
	return v
}

func writeAuth(w http.ResponseWriter, status int, st auth.State, notices []string) {
	if notices == nil {
		notices = []string{}
	}
	writeJSON(w, status, authResponse{User: viewOf(st), Notifications: notices})
}

// writeAuthError maps auth failures. Backend messages are passed through.
func writeAuthError(w http.ResponseWriter, code string, err error) {
	var verr *auth.ValidationError
	var apiErr *supabase.APIError
	switch {
	case errors.As(err, &verr):
		writeFieldErrors(w, verr.Errors)
	case errors.Is(err, auth.ErrUnavailable):
		WriteJSONError(w, http.StatusServiceUnavailable, "auth_unavailable", err.Error())
	case errors.Is(err, auth.ErrNotSignedIn):
		WriteJSONError(w, http.StatusUnauthorized, "not_signed_in", "")
	case errors.Is(err, auth.ErrNoProfile):
		WriteJSONError(w, http.StatusNotFound, "profile_not_found", "")
	case errors.As(err, &apiErr):
		status := http.StatusUnauthorized
		if apiErr.Status >= 500 {
			status = http.StatusBadGateway
		}
		WriteJSONError(w, status, code, apiErr.Message)
	default:
		WriteJSONError(w, http.StatusBadGateway, code, err.Error())
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) signInHandler(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, "sign_in_failed", err)
		return
	}
	s := a.currentSession(w, r)
	s.SetAuth(res.State)
	writeAuth(w, http.StatusOK, res.State, res.Notices)
}

func (a *App) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpInput
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.Auth.SignUp(r.Context(), req)
	if err != nil {
		writeAuthError(w, "sign_up_failed", err)
		return
	}
	s := a.currentSession(w, r)
	if res.State.Authenticated() {
		s.SetAuth(res.State)
	}
	writeAuth(w, http.StatusCreated, res.State, res.Notices)
}

func (a *App) signOutHandler(w http.ResponseWriter, r *http.Request) {
	s := a.currentSession(w, r)
	err := a.Auth.SignOut(r.Context(), s.Auth())
	s.SetAuth(auth.State{})
	if err != nil && !errors.Is(err, auth.ErrNotSignedIn) {
		writeAuthError(w, "sign_out_failed", err)
		return
	}
	writeAuth(w, http.StatusOK, auth.State{}, nil)
}

func (a *App) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}
	s := a.currentSession(w, r)
	res, err := a.Auth.UpdateProfile(r.Context(), s.Auth(), req)
	if err != nil {
		writeAuthError(w, "profile_update_failed", err)
		return
	}
	s.SetAuth(res.State)
	writeAuth(w, http.StatusOK, res.State, res.Notices)
}

func (a *App) authSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := a.currentSession(w, r)
	st := s.Auth()
	if !st.Authenticated() || !a.Auth.Available() {
		writeAuth(w, http.StatusOK, st, nil)
		return
	}
	res, err := a.Auth.Refresh(r.Context(), st)
	if err != nil {
		writeAuthError(w, "session_check_failed", err)
		return
	}
	s.SetAuth(res.State)
	writeAuth(w, http.StatusOK, res.State, res.Notices)
}
