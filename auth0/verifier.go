package auth0

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/coffee-shop/metrics"
	"gopkg.in/square/go-jose.v2"
)

// ErrJWKSFetchFailed is wrapped by ErrJWKSUnavailable when the key set
// endpoint cannot be reached or answers with a non-200 status
var ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

// Config holds configuration for Verifier
type Config struct {
	// Domain is the tenant domain, e.g. "my-shop.us.auth0.com"
	Domain   string
	Audience string
	// Algorithms lists the accepted signing algorithms. Defaults to RS256.
	Algorithms []string
	// CacheTTL bounds how long a fetched key set is reused. Zero fetches the
	// key set on every verification.
	CacheTTL time.Duration
	// RefreshInterval is the minimum time between refetches forced by an
	// unknown kid. Defaults to 30s.
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
	// JWKSURL overrides https://{Domain}/.well-known/jwks.json
	JWKSURL string
}

// Issuer returns the expected iss claim for domain
func Issuer(domain string) string {
	return fmt.Sprintf("https://%s/", domain)
}

// JWKSURL returns the well-known key set location for domain
func JWKSURL(domain string) string {
	return fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
}

// Verifier validates bearer tokens issued by an Auth0 tenant
type Verifier struct {
	audience   string
	issuer     string
	algorithms []string
	jwksURL    string
	httpClient *http.Client

	cacheTTL        time.Duration
	refreshInterval time.Duration
	jwksCache       *jose.JSONWebKeySet
	jwksCacheExp    time.Time
	lastForced      time.Time
	cacheMu         sync.RWMutex
}

// NewVerifier creates a new Verifier
func NewVerifier(config Config) *Verifier {
	if len(config.Algorithms) == 0 {
		config.Algorithms = []string{"RS256"}
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 5 * time.Second
	}
	if config.CacheTTL < 0 {
		config.CacheTTL = 0
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 30 * time.Second
	}
	jwksURL := config.JWKSURL
	if jwksURL == "" {
		jwksURL = JWKSURL(config.Domain)
	}

	return &Verifier{
		audience:   config.Audience,
		issuer:     Issuer(config.Domain),
		algorithms: config.Algorithms,
		jwksURL:    jwksURL,
		cacheTTL:        config.CacheTTL,
		refreshInterval: config.RefreshInterval,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// ValidateToken verifies tokenString and returns its claims. Every failure
// is an *AuthError.
func (v *Verifier) ValidateToken(ctx context.Context, tokenString string) (ClaimSet, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.algorithms),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
	)

	// Reject structurally broken tokens before touching the network
	unverified, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidHeader.wrap(err)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, ErrInvalidHeader
	}

	key, err := v.lookupKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err = parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key.Key, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	return ClaimSet(claims), nil
}

// classifyParseError maps a signature/claims verification failure to its kind
func classifyParseError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrInvalidClaims.wrap(err)
	default:
		return ErrTokenUnparseable.wrap(err)
	}
}

// lookupKey finds kid in the key set. A miss against a cached set triggers
// a refresh so rotated keys are picked up before the TTL expires, at most
// once per refresh interval.
func (v *Verifier) lookupKey(ctx context.Context, kid string) (*jose.JSONWebKey, error) {
	jwks, cached, err := v.keySet(ctx, false)
	if err != nil {
		return nil, ErrJWKSUnavailable.wrap(err)
	}
	if keys := jwks.Key(kid); len(keys) > 0 {
		return &keys[0], nil
	}

	if cached && v.reserveForcedRefresh() {
		jwks, _, err = v.keySet(ctx, true)
		if err != nil {
			return nil, ErrJWKSUnavailable.wrap(err)
		}
		if keys := jwks.Key(kid); len(keys) > 0 {
			return &keys[0], nil
		}
	}

	return nil, ErrKeyNotFound
}

// FetchJWKS returns the key set, from cache when still fresh
func (v *Verifier) FetchJWKS(ctx context.Context) (*jose.JSONWebKeySet, error) {
	jwks, _, err := v.keySet(ctx, false)
	return jwks, err
}

func (v *Verifier) keySet(ctx context.Context, refresh bool) (*jose.JSONWebKeySet, bool, error) {
	if !refresh && v.cacheTTL > 0 {
		v.cacheMu.RLock()
		if v.jwksCache != nil && time.Now().Before(v.jwksCacheExp) {
			jwks := v.jwksCache
			v.cacheMu.RUnlock()
			metrics.JWKSFetchTotal.WithLabelValues("cached", "ok").Inc()
			return jwks, true, nil
		}
		v.cacheMu.RUnlock()
	}

	jwks, err := v.fetchRemote(ctx)
	if err != nil {
		metrics.JWKSFetchTotal.WithLabelValues("remote", "error").Inc()
		return nil, false, err
	}
	metrics.JWKSFetchTotal.WithLabelValues("remote", "ok").Inc()

	if v.cacheTTL > 0 {
		v.cacheMu.Lock()
		v.jwksCache = jwks
		v.jwksCacheExp = time.Now().Add(v.cacheTTL)
		v.cacheMu.Unlock()
	}

	return jwks, false, nil
}

func (v *Verifier) fetchRemote(ctx context.Context) (*jose.JSONWebKeySet, error) {
	start := time.Now()
	defer func() {
		metrics.JWKSFetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	return &jwks, nil
}

// reserveForcedRefresh reports whether a kid miss may refetch the key set
// now and, if so, records the attempt
func (v *Verifier) reserveForcedRefresh() bool {
	v.cacheMu.Lock()
	defer v.cacheMu.Unlock()
	if !v.lastForced.IsZero() && time.Since(v.lastForced) < v.refreshInterval {
		return false
	}
	v.lastForced = time.Now()
	return true
}
