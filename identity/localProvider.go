package identity

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/helpers"
	"go-food-ordering/models"
	"go-food-ordering/storage"
)

const (
	SessionKey        = "identity-session"
	minPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrEmailTaken         = errors.New("User already registered")
	ErrInvalidEmail       = errors.New("Unable to validate email address: invalid format")
	ErrWeakPassword       = errors.New("Password should be at least 6 characters")
	ErrNoSession          = errors.New("Auth session missing!")
	ErrUserNotFound       = errors.New("User not found")
)

var validate = validator.New()

type listener func(event models.AuthEvent, session *models.Session)

// LocalProvider is an identity provider backed by a UserRepository, bcrypt
// hashes and signed JWT access tokens. It tracks one current session, like a
// single client device would.
type LocalProvider struct {
	mu           sync.Mutex
	users        UserRepository
	sessions     storage.Storage
	tokens       *helpers.TokenIssuer
	hashCost     int
	now          func() time.Time
	session      *models.Session
	loaded       bool
	listeners    map[int]listener
	nextListener int
	logger       *log.Entry
}

type Option func(*LocalProvider)

func WithHashCost(cost int) Option {
	return func(p *LocalProvider) {
		p.hashCost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) {
		p.now = now
	}
}

func NewLocalProvider(users UserRepository, sessions storage.Storage, tokens *helpers.TokenIssuer, opts ...Option) *LocalProvider {
	p := &LocalProvider{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		hashCost:  helpers.DefaultPasswordCost,
		now:       time.Now,
		listeners: make(map[int]listener),
		logger:    log.WithField("component", "identity"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetSession returns the current session, or nil when signed out or expired.
func (p *LocalProvider) GetSession(ctx context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		session, err := p.readSession(ctx)
		if err != nil {
			return nil, err
		}
		p.session = session
		p.loaded = true
	}
	if p.session != nil && p.session.Expired(p.now()) {
		p.logger.WithField("user_id", p.session.User.ID).Info("session expired")
		p.session = nil
		if err := p.sessions.Delete(ctx, SessionKey); err != nil {
			return nil, err
		}
	}
	return copySession(p.session), nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string, metadata models.UserMetadata) (*models.Session, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := helpers.HashPassword(password, p.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	now := p.now().UTC()
	record := UserRecord{
		User_id:    helpers.NewUserID(),
		Email:      email,
		Password:   hash,
		Metadata:   metadata,
		Created_at: now,
		Updated_at: now,
	}
	if err := p.users.Create(ctx, record); err != nil {
		return nil, err
	}
	p.logger.WithField("user_id", record.User_id).Info("user signed up")

	return p.startSession(ctx, record)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	record, err := p.users.FindByEmail(ctx, normalizeEmail(email))
	if err == ErrUserNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if ok, _ := helpers.VerifyPassword(password, record.Password); !ok {
		return nil, ErrInvalidCredentials
	}

	return p.startSession(ctx, record)
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.loaded = true
	err := p.sessions.Delete(ctx, SessionKey)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	p.emit(models.AuthSignedOut, nil)
	return nil
}

// UpdateUser merges update into the signed-in user's metadata.
func (p *LocalProvider) UpdateUser(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	current, err := p.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoSession
	}

	record, err := p.users.Find(ctx, current.User.ID)
	if err != nil {
		return nil, err
	}
	record.Metadata = record.Metadata.Merge(update)
	record.Updated_at = p.now().UTC()
	if err := p.users.Update(ctx, record); err != nil {
		return nil, err
	}

	user := record.User()
	p.mu.Lock()
	if p.session != nil && p.session.User.ID == user.ID {
		p.session.User = user
		err = p.writeSession(ctx, p.session)
	}
	session := copySession(p.session)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p.emit(models.AuthUserUpdated, session)
	return &user, nil
}

// OnAuthStateChange registers listener for SIGNED_IN, SIGNED_OUT and
// USER_UPDATED events.
func (p *LocalProvider) OnAuthStateChange(l func(event models.AuthEvent, session *models.Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextListener++
	id := p.nextListener
	p.listeners[id] = l
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// ValidateAccessToken checks signature and expiry of a token issued by this provider.
func (p *LocalProvider) ValidateAccessToken(token string) (*helpers.SignedDetails, error) {
	return p.tokens.ValidateToken(token)
}

func (p *LocalProvider) startSession(ctx context.Context, record UserRecord) (*models.Session, error) {
	user := record.User()
	token, refreshToken, expiresAt, err := p.tokens.GenerateAllTokens(user.Email, user.Metadata.FullName, user.ID)
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC(),
		User:         user,
	}

	p.mu.Lock()
	p.session = session
	p.loaded = true
	err = p.writeSession(ctx, session)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p.emit(models.AuthSignedIn, copySession(session))
	return copySession(session), nil
}

func (p *LocalProvider) emit(event models.AuthEvent, session *models.Session) {
	p.mu.Lock()
	listeners := make([]listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(event, copySession(session))
	}
}

func (p *LocalProvider) readSession(ctx context.Context) (*models.Session, error) {
	raw, err := p.sessions.Get(ctx, SessionKey)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		p.logger.WithError(err).Warn("discarding unreadable session")
		return nil, nil
	}
	return &session, nil
}

func (p *LocalProvider) writeSession(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return p.sessions.Set(ctx, SessionKey, raw)
}

func copySession(session *models.Session) *models.Session {
	if session == nil {
		return nil
	}
	copied := *session
	return &copied
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
