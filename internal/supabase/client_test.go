package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

const (
	userOne = "8f14e45f-ceea-467f-a0e6-6c3b9b2b3c11"
	userTwo = "c9f0f895-fb98-4b91-9f5c-3a2b1d4e5f60"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "anon-key", 2*time.Second)
}

func TestListPizzas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/pizzas", r.URL.Path)
		assert.Equal(t, "category.asc.nullslast", r.URL.Query().Get("order"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Margherita","description":"Fresh","price":12.99,"category":"classic"},
			{"id":"b7","name":"Supreme","price":"16.99","category":"specialty"}]`)
	})
	rows, err := c.ListPizzas(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RowID("1"), rows[0].ID)
	assert.Equal(t, RowID("b7"), rows[1].ID)
	it := rows[0].Item()
	assert.Equal(t, "12.99", it.Price.StringFixed(2))
	assert.Equal(t, model.CategoryClassic, it.Category)
}

func TestGetPizza_NoRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		assert.Equal(t, "eq.42", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`)
	})
	_, err := c.GetPizza(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})
	_, err := c.SignInWithPassword(context.Background(), "a@b.co", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestRESTErrorKeepsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})
	_, err := c.ListPizzas(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestCallHonoursContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListPizzas(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		_, _ = io.WriteString(w, `{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"`+userOne+`","email":"ana@example.com"}}`)
	})
	s, err := c.SignInWithPassword(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, userOne, s.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt(), 5*time.Second)
}

func TestSignUp_ConfirmationRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		var body struct {
			Email string         `json:"email"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana Lima", body.Data["full_name"])
		_, _ = io.WriteString(w, `{"id":"`+userTwo+`","email":"ana@example.com"}`)
	})
	s, err := c.SignUp(context.Background(), "ana@example.com", "secret1", "Ana Lima")
	require.NoError(t, err)
	assert.Empty(t, s.AccessToken)
	assert.Equal(t, userTwo, s.User.ID)
}

func TestClientProfiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq.u1", r.URL.Query().Get("auth_id"))
			_, _ = io.WriteString(w, `{"id":"c1","auth_id":"u1","full_name":"Ana Lima","email":"ana@example.com"}`)
		case http.MethodPost:
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			var row model.Profile
			require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
			row.ID = "c2"
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(row)
		case http.MethodPatch:
			assert.Equal(t, "eq.u1", r.URL.Query().Get("auth_id"))
			assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
			var upd ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
			_ = json.NewEncoder(w).Encode(model.Profile{ID: "c1", AuthID: "u1", FullName: upd.FullName, Phone: upd.Phone, Address: upd.Address})
		}
	})
	p, err := c.GetClientByAuthID(context.Background(), "user-token", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", p.FullName)

	created, err := c.CreateClient(context.Background(), "user-token", model.Profile{AuthID: "u3", FullName: "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	updated, err := c.UpdateClient(context.Background(), "user-token", "u1", ProfileUpdate{FullName: "Ana L.", Phone: "555-0100", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Ana L.", updated.FullName)
	assert.Equal(t, "555-0100", updated.Phone)
}

func TestUpdateClient_NoProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","message":"no rows"}`)
	})
	_, err := c.UpdateClient(context.Background(), "user-token", "u9", ProfileUpdate{FullName: "X"})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestSignOutAndGetUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/logout":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		case "/auth/v1/user":
			_, _ = io.WriteString(w, `{"id":"`+userOne+`","email":"ana@example.com"}`)
		}
	})
	require.NoError(t, c.SignOut(context.Background(), "at"))
	u, err := c.GetUser(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, userOne, u.ID)
}
