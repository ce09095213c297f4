// Package auth signs shoppers in and out against the hosted backend and
// keeps their profile for display.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// Messages surfaced to the shopper.
const (
	MsgSignedIn       = "Successfully signed in!"
	MsgRegistered     = "Successfully registered! Please check your email to verify your account."
	MsgProfileMissing = "Unable to load profile"
	MsgAuthError      = "Authentication error"
	MsgProfileUpdated = "Profile updated successfully"
)

var (
	// ErrUnavailable is returned when no auth backend is configured.
	ErrUnavailable = errors.New("auth: backend not configured")
	// ErrNotSignedIn is returned by operations that need a session.
	ErrNotSignedIn = errors.New("auth: not signed in")
	// ErrNoProfile is returned by Profiles when the account has no profile.
	ErrNoProfile = errors.New("auth: profile not found")
)

// Provider is the account collaborator.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (model.AuthSession, error)
	SignUp(ctx context.Context, email, password, fullName string) (model.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentSession(ctx context.Context, accessToken string) (model.AuthSession, error)
}

// Profiles is the client-profile collaborator.
type Profiles interface {
	ProfileByAuthID(ctx context.Context, s model.AuthSession) (model.Profile, error)
	CreateProfile(ctx context.Context, s model.AuthSession, p model.Profile) (model.Profile, error)
	UpdateProfile(ctx context.Context, s model.AuthSession, in ProfileInput) (model.Profile, error)
}

// State is what a shopper session knows about its account. The zero value
// is signed out.
type State struct {
	Session *model.AuthSession
	Profile *model.Profile
}

// Authenticated reports whether a session with a token is present.
func (s State) Authenticated() bool { return s.Session != nil && s.Session.AccessToken != "" }

// DisplayName is the profile name, falling back to the account email.
func (s State) DisplayName() string {
	if s.Profile != nil && strings.TrimSpace(s.Profile.FullName) != "" {
		return s.Profile.FullName
	}
	if s.Session != nil {
		return s.Session.Email
	}
	return ""
}

// Result is the outcome of a sign-in or sign-up. Notices are the messages
// to show, in order.
type Result struct {
	State   State
	Notices []string
}

// Service runs the account flows. A nil Provider makes every flow return
// ErrUnavailable.
type Service struct {
	provider Provider
	profiles Profiles
}

func NewService(p Provider, profiles Profiles) *Service {
	return &Service{provider: p, profiles: profiles}
}

// Available reports whether a backend is wired.
func (s *Service) Available() bool { return s.provider != nil }

// SignIn authenticates and loads the profile. A failed profile load leaves
// the shopper signed in without a profile.
func (s *Service) SignIn(ctx context.Context, email, password string) (Result, error) {
	if !s.Available() {
		return Result{}, ErrUnavailable
	}
	if errs := ValidateCredentials(email, password); !errs.OK() {
		return Result{}, &ValidationError{Errors: errs}
	}
	sess, err := s.provider.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Result{}, fmt.Errorf("sign in: %w", err)
	}
	res := Result{State: State{Session: &sess}}
	res.Notices = s.loadProfile(ctx, &res.State)
	res.Notices = append(res.Notices, MsgSignedIn)
	return res, nil
}

func (s *Service) loadProfile(ctx context.Context, st *State) []string {
	if s.profiles == nil {
		return nil
	}
	p, err := s.profiles.ProfileByAuthID(ctx, *st.Session)
	if err != nil {
		obs.Logger.Warn("profile load failed", "user_id", st.Session.UserID, "error", err)
		return []string{MsgProfileMissing}
	}
	st.Profile = &p
	return nil
}

// SignUp validates in, registers the account and creates its profile.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	if !s.Available() {
		return Result{}, ErrUnavailable
	}
	if errs := ValidateSignUp(in); !errs.OK() {
		return Result{}, &ValidationError{Errors: errs}
	}
	email := strings.TrimSpace(in.Email)
	sess, err := s.provider.SignUp(ctx, email, in.Password, in.FullName)
	if err != nil {
		return Result{}, fmt.Errorf("sign up: %w", err)
	}
	res := Result{State: State{Session: &sess}}
	if s.profiles != nil {
		p, err := s.profiles.CreateProfile(ctx, sess, model.Profile{
			AuthID:   sess.UserID,
			Email:    email,
			FullName: in.FullName,
			Phone:    in.Phone,
			Address:  in.Address,
			City:     in.City,
			ZipCode:  in.ZipCode,
		})
		if err != nil {
			return Result{}, fmt.Errorf("create profile: %w", err)
		}
		res.State.Profile = &p
	}
	if !res.State.Authenticated() {
		res.State = State{}
	}
	res.Notices = []string{MsgRegistered}
	return res, nil
}

// UpdateProfile edits the signed-in shopper's profile and returns the State
// carrying the stored row.
func (s *Service) UpdateProfile(ctx context.Context, st State, in ProfileInput) (Result, error) {
	if !s.Available() || s.profiles == nil {
		return Result{}, ErrUnavailable
	}
	if !st.Authenticated() {
		return Result{}, ErrNotSignedIn
	}
	in.FullName = strings.TrimSpace(in.FullName)
	if errs := ValidateProfile(in); !errs.OK() {
		return Result{}, &ValidationError{Errors: errs}
	}
	p, err := s.profiles.UpdateProfile(ctx, *st.Session, in)
	if err != nil {
		return Result{}, fmt.Errorf("update profile: %w", err)
	}
	sess := *st.Session
	return Result{State: State{Session: &sess, Profile: &p}, Notices: []string{MsgProfileUpdated}}, nil
}

// SignOut revokes the session. The caller drops its State regardless of the
// error.
func (s *Service) SignOut(ctx context.Context, st State) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if !st.Authenticated() {
		return ErrNotSignedIn
	}
	if err := s.provider.SignOut(ctx, st.Session.AccessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Refresh re-reads the session behind st and reloads the profile. Any
// backend failure yields the signed-out State and an auth error notice.
func (s *Service) Refresh(ctx context.Context, st State) (Result, error) {
	if !s.Available() {
		return Result{}, ErrUnavailable
	}
	if !st.Authenticated() {
		return Result{}, nil
	}
	cur, err := s.provider.CurrentSession(ctx, st.Session.AccessToken)
	if err != nil {
		obs.Logger.Warn("session check failed", "user_id", st.Session.UserID, "error", err)
		return Result{Notices: []string{MsgAuthError}}, nil
	}
	cur.RefreshToken = st.Session.RefreshToken
	if cur.ExpiresAt.IsZero() {
		cur.ExpiresAt = st.Session.ExpiresAt
	}
	res := Result{State: State{Session: &cur}}
	res.Notices = s.loadProfile(ctx, &res.State)
	return res, nil
}
