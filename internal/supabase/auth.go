package supabase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

// User is an auth account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an issued token pair. AccessToken is empty when sign-up
// requires email confirmation first.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         User      `json:"user"`
	IssuedAt     time.Time `json:"-"`
}

// ExpiresAt is IssuedAt plus ExpiresIn.
func (s Session) ExpiresAt() time.Time {
	if s.ExpiresIn <= 0 {
		return time.Time{}
	}
	return s.IssuedAt.Add(time.Duration(s.ExpiresIn) * time.Second)
}

func userFrom(u types.User) User {
	if u.ID == uuid.Nil {
		return User{Email: u.Email}
	}
	return User{ID: u.ID.String(), Email: u.Email}
}

func sessionFrom(s types.Session) Session {
	return Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         userFrom(s.User),
		IssuedAt:     time.Now(),
	}
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.call(ctx, "sign_in", func(ct *callTransport) error {
		res, err := c.auth(ct, "").SignInWithEmailPassword(email, password)
		if err != nil {
			return err
		}
		s = sessionFrom(res.Session)
		return nil
	})
	return s, err
}

// SignUp registers an account with full_name in its metadata. Projects that
// require email confirmation answer with the bare user and no tokens.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (Session, error) {
	var s Session
	err := c.call(ctx, "sign_up", func(ct *callTransport) error {
		res, err := c.auth(ct, "").Signup(types.SignupRequest{
			Email:    email,
			Password: password,
			Data:     map[string]any{"full_name": fullName},
		})
		if err != nil {
			return err
		}
		s = sessionFrom(res.Session)
		if s.User.ID == "" {
			s.User = userFrom(res.User)
		}
		return nil
	})
	return s, err
}

// SignOut revokes the session behind token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.call(ctx, "sign_out", func(ct *callTransport) error {
		return c.auth(ct, token).Logout()
	})
}

// GetUser returns the account behind token.
func (c *Client) GetUser(ctx context.Context, token string) (User, error) {
	var u User
	err := c.call(ctx, "get_user", func(ct *callTransport) error {
		res, err := c.auth(ct, token).GetUser()
		if err != nil {
			return err
		}
		u = userFrom(res.User)
		return nil
	})
	return u, err
}
