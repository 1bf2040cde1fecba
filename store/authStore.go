package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/models"
)

// IdentityProvider is the external service that owns credentials and sessions.
type IdentityProvider interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SignUp(ctx context.Context, email, password string, metadata models.UserMetadata) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	OnAuthStateChange(listener func(event models.AuthEvent, session *models.Session)) (unsubscribe func())
}

// AuthError carries the identity provider's message back to the caller.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Op + ": " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Cause() error { return e.Err }

func authError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AuthError{Op: op, Message: errors.Cause(err).Error(), Err: err}
}

// AuthState is the persisted part of the auth store. The session token stays
// with the identity provider.
type AuthState struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type AuthStore struct {
	mu          sync.Mutex
	state       AuthState
	session     *models.Session
	isLoading   bool
	provider    IdentityProvider
	persister   Persister
	unsubscribe func()
	logger      *log.Entry
}

func NewAuthStore(provider IdentityProvider, persister Persister) *AuthStore {
	return &AuthStore{
		provider:  provider,
		persister: persister,
		isLoading: true,
		logger:    log.WithField("component", "auth-store"),
	}
}

// Initialize loads the provider's current session and starts following its
// state changes. Calling it again only refreshes the session.
func (s *AuthStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.isLoading = true
	subscribed := s.unsubscribe != nil
	s.mu.Unlock()

	if !subscribed {
		unsubscribe := s.provider.OnAuthStateChange(s.onAuthStateChange)
		s.mu.Lock()
		s.unsubscribe = unsubscribe
		s.mu.Unlock()
	}

	session, err := s.provider.GetSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		return authError("initialize", err)
	}
	s.applySession(session)
	return nil
}

func (s *AuthStore) SignUp(ctx context.Context, email, password, fullName string) error {
	return s.withLoading(func() error {
		session, err := s.provider.SignUp(ctx, email, password, models.UserMetadata{FullName: fullName})
		if err != nil {
			return authError("signUp", err)
		}
		s.mu.Lock()
		s.applySession(session)
		s.mu.Unlock()
		return nil
	})
}

func (s *AuthStore) SignIn(ctx context.Context, email, password string) error {
	return s.withLoading(func() error {
		session, err := s.provider.SignIn(ctx, email, password)
		if err != nil {
			return authError("signIn", err)
		}
		s.mu.Lock()
		s.applySession(session)
		s.mu.Unlock()
		return nil
	})
}

func (s *AuthStore) SignOut(ctx context.Context) error {
	return s.withLoading(func() error {
		if err := s.provider.SignOut(ctx); err != nil {
			return authError("signOut", err)
		}
		s.mu.Lock()
		s.applySession(nil)
		s.mu.Unlock()
		return nil
	})
}

// UpdateProfile merges the provider's returned metadata into the current user.
func (s *AuthStore) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	return s.withLoading(func() error {
		user, err := s.provider.UpdateUser(ctx, update)
		if err != nil {
			return authError("updateProfile", err)
		}
		s.mu.Lock()
		s.applyUser(user)
		s.mu.Unlock()
		return nil
	})
}

func (s *AuthStore) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return models.User{}, false
	}
	return *s.state.User, true
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.IsAuthenticated
}

func (s *AuthStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isLoading
}

func (s *AuthStore) Session() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// Close stops following the identity provider.
func (s *AuthStore) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Load restores the last known user so it is available before Initialize
// has reached the provider.
func (s *AuthStore) Load(ctx context.Context) error {
	var state AuthState
	found, err := s.persister.Restore(ctx, AuthNamespace, &state)
	if err != nil {
		return errors.Wrap(err, "load auth state")
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

func (s *AuthStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = AuthState{}
	s.session = nil
	s.mu.Unlock()

	return s.persister.Remove(ctx, AuthNamespace)
}

func (s *AuthStore) onAuthStateChange(event models.AuthEvent, session *models.Session) {
	s.logger.WithField("event", event).Debug("auth state changed")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySession(session)
}

func (s *AuthStore) withLoading(fn func() error) error {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return err
}

// applySession must be called with mu held.
func (s *AuthStore) applySession(session *models.Session) {
	var next AuthState
	if session != nil {
		user := session.User
		next = AuthState{User: &user, IsAuthenticated: true}
		copied := *session
		s.session = &copied
	} else {
		s.session = nil
	}
	s.state = next
	s.persister.Persist(AuthNamespace, next)
}

// applyUser must be called with mu held.
func (s *AuthStore) applyUser(user *models.User) {
	if user == nil || s.state.User == nil {
		return
	}
	merged := *s.state.User
	merged.Metadata = user.Metadata
	merged.Updated_at = user.Updated_at
	if user.Email != "" {
		merged.Email = user.Email
	}
	next := AuthState{User: &merged, IsAuthenticated: s.state.IsAuthenticated}
	if s.session != nil {
		s.session.User = merged
	}
	s.state = next
	s.persister.Persist(AuthNamespace, next)
}
