package supabase

import (
	"bytes"
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// RowID accepts either a JSON number or a string identifier.
type RowID string

func (id *RowID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*id = RowID(s)
		return nil
	}
	*id = RowID(b)
	return nil
}

// Pizza is a row of the pizzas table.
type Pizza struct {
	ID          RowID           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// Item converts the row into a catalog item.
func (p Pizza) Item() model.CatalogItem {
	return model.CatalogItem{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    model.Category(p.Category),
	}
}

var byCategory = &postgrest.OrderOpts{Ascending: true}

// ListPizzas returns every pizza ordered by category.
func (c *Client) ListPizzas(ctx context.Context) ([]Pizza, error) {
	var rows []Pizza
	err := c.call(ctx, "list_pizzas", func(ct *callTransport) error {
		_, err := c.rest(ct, "").From("pizzas").
			Select("*", "", false).
			Order("category", byCategory).
			ExecuteTo(&rows)
		return err
	})
	return rows, err
}

// GetPizza returns one pizza or ErrNoRows.
func (c *Client) GetPizza(ctx context.Context, id string) (Pizza, error) {
	var row Pizza
	err := c.call(ctx, "get_pizza", func(ct *callTransport) error {
		_, err := c.rest(ct, "").From("pizzas").
			Select("*", "", false).
			Eq("id", id).
			Single().
			ExecuteTo(&row)
		return err
	})
	return row, err
}

// GetClientByAuthID returns the client profile linked to an auth user, or
// ErrNoRows.
func (c *Client) GetClientByAuthID(ctx context.Context, token, authID string) (model.Profile, error) {
	var p model.Profile
	err := c.call(ctx, "get_client", func(ct *callTransport) error {
		_, err := c.rest(ct, token).From("clients").
			Select("*", "", false).
			Eq("auth_id", authID).
			Single().
			ExecuteTo(&p)
		return err
	})
	return p, err
}

// CreateClient inserts a client profile and returns the stored row.
func (c *Client) CreateClient(ctx context.Context, token string, p model.Profile) (model.Profile, error) {
	var out model.Profile
	err := c.call(ctx, "create_client", func(ct *callTransport) error {
		_, err := c.rest(ct, token).From("clients").
			Insert(p, false, "", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	return out, err
}

// ProfileUpdate holds the editable profile columns.
type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateClient changes the profile linked to authID and returns the stored
// row, or ErrNoRows when no profile exists.
func (c *Client) UpdateClient(ctx context.Context, token, authID string, u ProfileUpdate) (model.Profile, error) {
	var out model.Profile
	err := c.call(ctx, "update_client", func(ct *callTransport) error {
		_, err := c.rest(ct, token).From("clients").
			Update(u, "representation", "").
			Eq("auth_id", authID).
			Single().
			ExecuteTo(&out)
		return err
	})
	return out, err
}
