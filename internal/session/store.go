package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"roomkit/internal/api"
	"roomkit/internal/events"
	"roomkit/pkg/logger"
)

var validate = validator.New()

var errNoRefreshToken = errors.New("no refresh token available")

// UserUpdated is published whenever the cached profile changes,
// locally or from another instance.
type UserUpdated struct {
	User *User
}

// ProfilePictureUpdated is published in addition to UserUpdated when
// the change touched the picture.
type ProfilePictureUpdated struct {
	ProfilePicture string
	User           *User
}

// Store owns the session state: tokens plus the cached user. It is
// constructed once at the composition root and injected; nothing else
// mutates the snapshot.
type Store struct {
	mu      sync.Mutex
	snap    Snapshot
	adapter Adapter
	api     *api.Client
	bus     *events.Bus
	log     *logger.Logger
}

func NewStore(adapter Adapter, bus *events.Bus, log *logger.Logger) *Store {
	s := &Store{
		adapter: adapter,
		bus:     bus,
		log:     log,
	}
	snap, err := adapter.Load(context.Background())
	if err != nil {
		log.Error("session load failed: ", err)
		return s
	}
	s.snap = snap
	return s
}

// AttachAPI wires the REST client. Separate from the constructor
// because the client itself needs the store as its token source.
func (s *Store) AttachAPI(client *api.Client) {
	s.mu.Lock()
	s.api = client
	s.mu.Unlock()
}

// Start begins watching for external session changes. Blocks until
// ctx is cancelled; run it on its own goroutine.
func (s *Store) Start(ctx context.Context) error {
	return s.adapter.Watch(ctx, s.applyExternal)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterOutcome struct {
	User                 *User
	AutoLogin            bool
	RequiresVerification bool
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

func (s *Store) Login(ctx context.Context, creds Credentials) (*User, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := s.apiClient().Post("/api/v1/auth/login", creds, &resp); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, Snapshot{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User:         resp.User,
	}); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (s *Store) Register(ctx context.Context, req RegisterRequest) (*RegisterOutcome, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := s.apiClient().Post("/api/v1/auth/register", req, &resp); err != nil {
		return nil, err
	}

	// Tokens in the response mean the backend auto-logged us in;
	// otherwise email verification is pending.
	if resp.Access != "" && resp.Refresh != "" {
		if err := s.persist(ctx, Snapshot{
			AccessToken:  resp.Access,
			RefreshToken: resp.Refresh,
			User:         resp.User,
		}); err != nil {
			return nil, err
		}
		return &RegisterOutcome{User: resp.User, AutoLogin: true}, nil
	}
	return &RegisterOutcome{RequiresVerification: true}, nil
}

// Logout revokes the session server-side on a best-effort basis and
// always clears local state.
func (s *Store) Logout(ctx context.Context) {
	if s.RefreshToken() != "" {
		if err := s.apiClient().Post("/api/v1/auth/logout", nil, nil); err != nil {
			s.log.Error("logout request failed: ", err)
		}
	}
	s.ClearAuthData(ctx)
}

func (s *Store) ClearAuthData(ctx context.Context) {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.mu.Unlock()
	if err := s.adapter.Clear(ctx); err != nil {
		s.log.Error("session clear failed: ", err)
	}
}

func (s *Store) RefreshAuthToken(ctx context.Context) (string, error) {
	refresh := s.RefreshToken()
	if refresh == "" {
		return "", errNoRefreshToken
	}

	req := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refresh}

	var resp tokenResponse
	if err := s.apiClient().Post("/api/v1/auth/refresh", req, &resp); err != nil {
		s.ClearAuthData(ctx)
		return "", err
	}

	s.mu.Lock()
	snap := s.snap
	snap.AccessToken = resp.Access
	if resp.Refresh != "" {
		snap.RefreshToken = resp.Refresh
	}
	s.snap = snap
	s.mu.Unlock()

	if err := s.adapter.Save(ctx, snap); err != nil {
		s.log.Error("session save failed: ", err)
	}
	return resp.Access, nil
}

func (s *Store) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := s.apiClient().Get("/api/v1/users/me", &user); err != nil {
		return nil, err
	}
	s.setUser(ctx, &user, false)
	return &user, nil
}

type ProfileUpdate struct {
	FullName       string `json:"full_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := s.apiClient().Put("/api/v1/users/me", update, &user); err != nil {
		return nil, err
	}

	// The backend may omit the picture from the response; keep what
	// we sent.
	if user.ProfilePicture == "" {
		user.ProfilePicture = update.ProfilePicture
	}

	s.setUser(ctx, &user, update.ProfilePicture != "")
	return &user, nil
}

func (s *Store) UpdateProfilePicture(ctx context.Context, picture string) (*User, error) {
	return s.UpdateProfile(ctx, ProfileUpdate{ProfilePicture: picture})
}

// IsAuthenticated is true iff the access token, the refresh token and
// the cached user are all present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.AccessToken != "" && s.snap.RefreshToken != "" && s.snap.User != nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.RefreshToken
}

func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.User == nil {
		return nil
	}
	u := *s.snap.User
	return &u
}

func (s *Store) DisplayName() string {
	return s.CurrentUser().DisplayName()
}

func (s *Store) HasRole(role string) bool {
	u := s.CurrentUser()
	return u != nil && u.Role == role
}

// TokenExpired inspects the access token's exp claim without
// verifying the signature; the backend is the authority either way.
func (s *Store) TokenExpired() bool {
	token := s.Token()
	if token == "" {
		return true
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Store) apiClient() *api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api
}

func (s *Store) persist(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return s.adapter.Save(ctx, snap)
}

func (s *Store) setUser(ctx context.Context, user *User, pictureChanged bool) {
	s.mu.Lock()
	s.snap.User = user
	snap := s.snap
	s.mu.Unlock()

	if err := s.adapter.Save(ctx, snap); err != nil {
		s.log.Error("session save failed: ", err)
	}

	events.Publish(s.bus, UserUpdated{User: user})
	if pictureChanged {
		events.Publish(s.bus, ProfilePictureUpdated{ProfilePicture: user.ProfilePicture, User: user})
	}
}

func (s *Store) applyExternal(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	events.Publish(s.bus, UserUpdated{User: snap.User})
}
