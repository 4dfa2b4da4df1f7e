package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwk is the subset of a JSON Web Key needed to rebuild an RSA public key.
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkDocument struct {
	Keys []jwk `json:"keys"`
}

const keyRefreshInterval = 5 * time.Minute

// keyCache holds RSA keys fetched from the issuer's JWKS endpoint and
// refetches them when a kid misses or the snapshot goes stale. Admin
// requests in production validate against these keys.
type keyCache struct {
	url    string
	client *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func newKeyCache(url string) *keyCache {
	return &keyCache{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		keys:   make(map[string]*rsa.PublicKey),
	}
}

func (kc *keyCache) key(kid string) (*rsa.PublicKey, error) {
	kc.mu.RLock()
	key, ok := kc.keys[kid]
	stale := time.Since(kc.fetchedAt) > keyRefreshInterval
	kc.mu.RUnlock()

	if ok && !stale {
		return key, nil
	}
	if err := kc.refresh(); err != nil {
		return nil, fmt.Errorf("refresh signing keys: %w", err)
	}

	kc.mu.RLock()
	defer kc.mu.RUnlock()
	if key, ok = kc.keys[kid]; !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return key, nil
}

func (kc *keyCache) refresh() error {
	resp, err := kc.client.Get(kc.url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", kc.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode)
	}

	var doc jwkDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode jwks document: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue // skip malformed keys
		}
		keys[k.Kid] = pub
	}

	kc.mu.Lock()
	kc.keys = keys
	kc.fetchedAt = time.Now()
	kc.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

func jwksKeyFunc(jwksURL string) jwt.Keyfunc {
	cache := newKeyCache(jwksURL)
	return func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return cache.key(kid)
	}
}
