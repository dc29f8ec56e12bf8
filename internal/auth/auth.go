package auth

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strings"

    "github.com/redis/go-redis/v9"
)

var errUnknownToken = errors.New("unknown session token")

// Principal is the authenticated caller plus its resolved capability
// set, carried in the request context instead of ambient session state.
type Principal struct {
    UserID       int
    Capabilities map[string]bool
}

// Has reports whether the principal holds the named capability.
func (p *Principal) Has(capability string) bool {
    if p == nil {
        return false
    }
    return p.Capabilities[capability]
}

type contextKey struct{}

// FromContext extracts the principal, nil when unauthenticated.
func FromContext(ctx context.Context) *Principal {
    p, _ := ctx.Value(contextKey{}).(*Principal)
    return p
}

// WithPrincipal returns a context carrying the principal. Exposed for tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
    return context.WithValue(ctx, contextKey{}, p)
}

// CapabilityResolver maps a session token to a principal.
type CapabilityResolver interface {
    Resolve(ctx context.Context, token string) (*Principal, error)
}

// RedisResolver reads sessions the way the panel's login flow writes
// them: auth:sess:<token> is a hash with a user_id field, and
// auth:caps:<token> is a set of capability names.
type RedisResolver struct {
    Client *redis.Client
}

func (r *RedisResolver) Resolve(ctx context.Context, token string) (*Principal, error) {
    userID, err := r.Client.HGet(ctx, "auth:sess:"+token, "user_id").Int()
    if err != nil {
        return nil, err
    }

    caps, err := r.Client.SMembers(ctx, "auth:caps:"+token).Result()
    if err != nil {
        return nil, err
    }

    p := &Principal{UserID: userID, Capabilities: map[string]bool{}}
    for _, c := range caps {
        p.Capabilities[c] = true
    }
    return p, nil
}

// StaticResolver serves a fixed token table, used in dev and tests.
type StaticResolver struct {
    Sessions map[string]*Principal
}

func (r *StaticResolver) Resolve(_ context.Context, token string) (*Principal, error) {
    p, ok := r.Sessions[token]
    if !ok {
        return nil, errUnknownToken
    }
    return p, nil
}

// Middleware resolves the bearer token and injects the principal.
// A missing or unknown token is a hard reject; no partial processing.
func Middleware(resolver CapabilityResolver) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            token := bearerToken(r)
            if token == "" {
                reject(w, http.StatusUnauthorized, "missing session token")
                return
            }

            p, err := resolver.Resolve(r.Context(), token)
            if err != nil || p == nil {
                reject(w, http.StatusUnauthorized, "invalid session")
                return
            }

            next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
        })
    }
}

// Require gates a handler behind a capability.
func Require(capability string, next http.HandlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        if !FromContext(r.Context()).Has(capability) {
            reject(w, http.StatusForbidden, "missing capability: "+capability)
            return
        }
        next(w, r)
    }
}

func bearerToken(r *http.Request) string {
    h := r.Header.Get("Authorization")
    if strings.HasPrefix(h, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
    }
    if c, err := r.Cookie("session_token"); err == nil {
        return c.Value
    }
    return ""
}

func reject(w http.ResponseWriter, status int, msg string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(map[string]interface{}{
        "success": false,
        "message": msg,
    })
}
