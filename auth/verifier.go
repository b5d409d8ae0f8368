package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"aninha-confeccoes/models"
)

var (
	// ErrInvalidCredentials is returned when the secret does not match
	ErrInvalidCredentials = errors.New("invalid admin credentials")
	// ErrRateLimited is returned when a client made too many attempts
	ErrRateLimited = errors.New("too many admin login attempts")
	// ErrNotConfigured is returned when no admin hash is set; admin mode is disabled
	ErrNotConfigured = errors.New("admin access is not configured")
)

// ErrEmptySecret is returned by HashSecret for a blank secret
var ErrEmptySecret = fmt.Errorf("secret is empty: %w", models.ErrValidation)

const (
	// limiterIdle is how long an unused per-client limiter is kept
	limiterIdle = 30 * time.Minute
	// maxTrackedClients bounds the per-client limiter map
	maxTrackedClients = 10000
	// overflowKey is the bucket shared by new clients once the map is full
	overflowKey = "\x00overflow"
)

// AdminVerifier decides whether a client may enter admin mode
type AdminVerifier interface {
	Verify(ctx context.Context, clientKey, secret string) error
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BcryptVerifier checks secrets against a bcrypt hash with a token bucket per client
type BcryptVerifier struct {
	hash  []byte
	every rate.Limit
	burst int

	mu         sync.Mutex
	clients    map[string]*clientLimiter
	maxClients int
	now        func() time.Time
}

var _ AdminVerifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier creates a verifier allowing attemptsPerMinute tries per client.
// An empty hash yields a verifier that always returns ErrNotConfigured.
func NewBcryptVerifier(hash string, attemptsPerMinute int) *BcryptVerifier {
	if attemptsPerMinute < 1 {
		attemptsPerMinute = 1
	}
	return &BcryptVerifier{
		hash:       []byte(strings.TrimSpace(hash)),
		every:      rate.Every(time.Minute / time.Duration(attemptsPerMinute)),
		burst:      attemptsPerMinute,
		clients:    make(map[string]*clientLimiter),
		maxClients: maxTrackedClients,
		now:        time.Now,
	}
}

// Configured reports whether an admin hash is set
func (v *BcryptVerifier) Configured() bool {
	return len(v.hash) > 0
}

// Verify spends one attempt from the client's bucket, then compares the secret
func (v *BcryptVerifier) Verify(ctx context.Context, clientKey, secret string) error {
	if !v.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.allow(clientKey) {
		return ErrRateLimited
	}

	err := bcrypt.CompareHashAndPassword(v.hash, []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to compare admin secret: %w", err)
	}
	return nil
}

func (v *BcryptVerifier) allow(clientKey string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	for key, c := range v.clients {
		if now.Sub(c.lastSeen) > limiterIdle {
			delete(v.clients, key)
		}
	}

	c, ok := v.clients[clientKey]
	if !ok && len(v.clients) >= v.maxClients {
		clientKey = overflowKey
		c, ok = v.clients[clientKey]
	}
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(v.every, v.burst)}
		v.clients[clientKey] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// HashSecret returns the bcrypt hash to put in ADMIN_PASSWORD_HASH
func HashSecret(secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrEmptySecret
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
