package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

// Gate tracks the current identity and answers authorization questions.
type Gate struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
	admins   map[string]struct{}
	log      logger.Logger

	mu       sync.RWMutex
	current  *Identity
	token    string
	watchers map[chan *Identity]struct{}
}

func NewGate(repo Repository, secret string, tokenTTL time.Duration, adminEmails []string, log logger.Logger) *Gate {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Gate{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		admins:   admins,
		log:      log,
		watchers: make(map[chan *Identity]struct{}),
	}
}

// IsAdmin is case-insensitive membership in the admin allow-list.
func (g *Gate) IsAdmin(ident *Identity) bool {
	if ident == nil {
		return false
	}
	_, ok := g.admins[strings.ToLower(strings.TrimSpace(ident.Email))]
	return ok
}

// Register provisions a new identity with the provider.
func (g *Gate) Register(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, err
	}
	u, err := g.repo.CreateUser(ctx, email, hash)
	if err != nil {
		return Identity{}, err
	}
	return u.Identity(), nil
}

// Login checks credentials and issues a token without touching the current
// identity.
func (g *Gate) Login(ctx context.Context, email, password string) (Identity, string, error) {
	u, err := g.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.log.Errorf("sign-in lookup failed email=%s err=%v", email, err)
		}
		return Identity{}, "", ErrInvalidCredentials
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return Identity{}, "", ErrInvalidCredentials
	}

	token, _, err := GenerateToken(g.secret, u.Identity(), g.tokenTTL)
	if err != nil {
		return Identity{}, "", err
	}
	return u.Identity(), token, nil
}

// SignIn logs in and makes the identity current.
func (g *Gate) SignIn(ctx context.Context, email, password string) (Identity, error) {
	ident, token, err := g.Login(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	g.mu.Lock()
	g.current = &ident
	g.token = token
	g.mu.Unlock()

	g.publish(&ident)
	return ident, nil
}

// SignOut clears the current identity. It always succeeds for the caller.
func (g *Gate) SignOut(ctx context.Context) {
	g.mu.Lock()
	token := g.token
	g.current = nil
	g.token = ""
	g.mu.Unlock()

	if token != "" {
		g.Revoke(ctx, token)
	}
	g.publish(nil)
}

// Revoke blacklists a token until it expires. Provider failures are logged,
// never returned.
func (g *Gate) Revoke(ctx context.Context, token string) {
	claims, err := ParseToken(g.secret, token)
	if err != nil {
		return
	}
	expiresAt := time.Now().Add(g.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := g.repo.RevokeToken(ctx, claims.ID, claims.Sub, expiresAt); err != nil {
		g.log.Warnf("token revoke failed user_id=%s err=%v", claims.Sub, err)
	}
}

// Authenticate resolves a bearer token to its identity.
func (g *Gate) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := ParseToken(g.secret, token)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	revoked, err := g.repo.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return Identity{}, ErrUnauthorized
	}
	return Identity{ID: claims.Sub, Email: claims.Email}, nil
}

// Current returns the signed-in identity, nil when signed out.
func (g *Gate) Current() *Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	ident := *g.current
	return &ident
}

// Watch streams the current identity, starting with the present value,
// until ctx is done.
func (g *Gate) Watch(ctx context.Context) <-chan *Identity {
	ch := make(chan *Identity, 1)

	g.mu.Lock()
	g.watchers[ch] = struct{}{}
	ch <- g.currentLocked()
	g.mu.Unlock()

	go func() {
		<-ctx.Done()
		g.mu.Lock()
		delete(g.watchers, ch)
		close(ch)
		g.mu.Unlock()
	}()
	return ch
}

func (g *Gate) currentLocked() *Identity {
	if g.current == nil {
		return nil
	}
	ident := *g.current
	return &ident
}

// publish delivers the latest identity, replacing any value a slow watcher
// has not consumed yet.
func (g *Gate) publish(ident *Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.watchers {
		select {
		case <-ch:
		default:
		}
		var v *Identity
		if ident != nil {
			cp := *ident
			v = &cp
		}
		ch <- v
	}
}
