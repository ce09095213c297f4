package auth

import (
	"context"
	"errors"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/supabase"
)

// Supabase adapts the backend client to Provider and Profiles.
type Supabase struct {
	Client *supabase.Client
}

func toAuthSession(s supabase.Session) model.AuthSession {
	return model.AuthSession{
		UserID:       s.User.ID,
		Email:        s.User.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt(),
	}
}

func (b Supabase) SignIn(ctx context.Context, email, password string) (model.AuthSession, error) {
	s, err := b.Client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return model.AuthSession{}, err
	}
	return toAuthSession(s), nil
}

func (b Supabase) SignUp(ctx context.Context, email, password, fullName string) (model.AuthSession, error) {
	s, err := b.Client.SignUp(ctx, email, password, fullName)
	if err != nil {
		return model.AuthSession{}, err
	}
	return toAuthSession(s), nil
}

func (b Supabase) SignOut(ctx context.Context, accessToken string) error {
	return b.Client.SignOut(ctx, accessToken)
}

// CurrentSession keeps the given tokens and refreshes the account fields.
func (b Supabase) CurrentSession(ctx context.Context, accessToken string) (model.AuthSession, error) {
	u, err := b.Client.GetUser(ctx, accessToken)
	if err != nil {
		return model.AuthSession{}, err
	}
	return model.AuthSession{UserID: u.ID, Email: u.Email, AccessToken: accessToken}, nil
}

func (b Supabase) ProfileByAuthID(ctx context.Context, s model.AuthSession) (model.Profile, error) {
	p, err := b.Client.GetClientByAuthID(ctx, s.AccessToken, s.UserID)
	if errors.Is(err, supabase.ErrNoRows) {
		return model.Profile{}, ErrNoProfile
	}
	return p, err
}

func (b Supabase) UpdateProfile(ctx context.Context, s model.AuthSession, in ProfileInput) (model.Profile, error) {
	p, err := b.Client.UpdateClient(ctx, s.AccessToken, s.UserID, supabase.ProfileUpdate{
		FullName: in.FullName,
		Phone:    in.Phone,
		Address:  in.Address,
	})
	if errors.Is(err, supabase.ErrNoRows) {
		return model.Profile{}, ErrNoProfile
	}
	return p, err
}

func (b Supabase) CreateProfile(ctx context.Context, s model.AuthSession, p model.Profile) (model.Profile, error) {
	return b.Client.CreateClient(ctx, s.AccessToken, p)
}
