package auth

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func rsaPublicKeyToJWK(privateKey *rsa.PrivateKey, kid string) JWKSKey {
	pub := &privateKey.PublicKey
	return JWKSKey{
		Kty: "RSA",
		Kid: kid,
		Use: "sig",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func jwksServer(t *testing.T, calls *int32, keys ...JWKSKey) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(JWKSResponse{Keys: keys})
	}))
}

func TestJWKSCache_FetchAndHit(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	var calls int32
	server := jwksServer(t, &calls, rsaPublicKeyToJWK(privateKey, "k1"))
	defer server.Close()

	cache := NewJWKSCache(server.URL, 5*time.Minute)
	key, err := cache.GetKey("k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.N.Cmp(privateKey.PublicKey.N) != 0 || key.E != privateKey.PublicKey.E {
		t.Error("fetched key does not match original")
	}

	if _, err := cache.GetKey("k1"); err != nil {
		t.Fatalf("unexpected error on cache hit: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
}

func TestJWKSCache_KeyNotFound(t *testing.T) {
	server := jwksServer(t, nil)
	defer server.Close()

	cache := NewJWKSCache(server.URL, 5*time.Minute)
	if _, err := cache.GetKey("missing"); err == nil {
		t.Fatal("expected error for unknown kid")
	}
}

func TestJWKSCache_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := NewJWKSCache(server.URL, 5*time.Minute)
	if _, err := cache.GetKey("any"); err == nil {
		t.Fatal("expected error for failing endpoint")
	}
}

func TestParseRSAPublicKey_InvalidModulus(t *testing.T) {
	if _, err := parseRSAPublicKey(JWKSKey{Kty: "RSA", N: "!!!", E: "AQAB"}); err == nil {
		t.Fatal("expected error for invalid modulus")
	}
}

func TestJWTMiddleware_RS256ViaJWKS(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	server := jwksServer(t, nil, rsaPublicKeyToJWK(privateKey, "rs-1"))
	defer server.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "analyst-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleAnalyst},
	})
	token.Header["kid"] = "rs-1"
	signed, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var uid string
	h := JWTMiddleware(JWTConfig{JWKSURL: server.URL})(func(c echo.Context) error {
		uid = UserIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "analyst-7" {
		t.Errorf("expected analyst-7, got %q", uid)
	}
}

func TestDiscoverJWKSURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"issuer":   "https://idp.example.com",
			"jwks_uri": "https://idp.example.com/keys",
		})
	}))
	defer server.Close()

	got, err := DiscoverJWKSURL(server.URL + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://idp.example.com/keys" {
		t.Errorf("unexpected jwks uri %q", got)
	}
}

func TestDiscoverJWKSURL_MissingURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"issuer": "https://idp.example.com"})
	}))
	defer server.Close()

	if _, err := DiscoverJWKSURL(server.URL); err == nil {
		t.Fatal("expected error for missing jwks_uri")
	}
}

func TestJWTMiddleware_DiscoveryFailureIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := JWTMiddleware(JWTConfig{Issuer: server.URL, Logger: &logger})(okHandler)

	if !strings.Contains(buf.String(), "OIDC discovery failed") {
		t.Fatalf("expected discovery failure to be logged, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), server.URL) {
		t.Errorf("expected issuer in log line, got %q", buf.String())
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{})
	token.Header["kid"] = "any"
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	c := e.NewContext(req, httptest.NewRecorder())
	expectStatus(t, h(c), http.StatusUnauthorized)
}
