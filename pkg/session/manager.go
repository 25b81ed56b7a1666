package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token.
const CookieName = "cv_session"

var ErrInvalidSession = errors.New("invalid or expired session")

// Manager issues HS256-signed session tokens and validates them against the
// store. The token subject is the account id; the jti is the stored session
// id, which must still exist for the token to be accepted.
type Manager struct {
	store  Store
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(store Store, secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a session row for the account and returns the signed token
// together with its expiry.
func (m *Manager) Issue(ctx context.Context, accountID int64) (string, time.Time, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return "", time.Time{}, err
	}
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   strconv.FormatInt(accountID, 10),
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, sess.ExpiresAt, nil
}

// Validate checks signature, issuer and expiry, then confirms the session
// row still exists. Returns the owning account id.
func (m *Manager) Validate(ctx context.Context, token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, ErrInvalidSession
	}
	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return 0, ErrInvalidSession
	}
	if !sess.ExpiresAt.IsZero() && time.Now().UTC().After(sess.ExpiresAt) {
		// Lazy cleanup of the expired row.
		_ = m.store.Delete(ctx, sess.ID)
		return 0, ErrInvalidSession
	}
	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID != sess.AccountID {
		return 0, ErrInvalidSession
	}
	return accountID, nil
}

// Revoke deletes the session behind the token. Unknown, malformed or
// already-revoked tokens are not an error: logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, ErrInvalidSession
	}
	if claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
