package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Signer produces the per-request authentication headers Kalshi requires:
// an RSA-PSS signature over timestamp+method+path (query stripped), SHA-256,
// base64-encoded, with a millisecond timestamp.
type Signer struct {
	keyID string
	key   *rsa.PrivateKey
}

// NewSigner loads the private key from inline PEM text when provided,
// falling back to the key file path. Both PKCS#1 and PKCS#8 encodings are
// accepted. A missing key ID or key is a configuration error; authenticated
// fetches cannot proceed without one.
func NewSigner(keyID, pemText, pemPath string) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("kalshi API key ID is not set")
	}

	raw := []byte(pemText)
	if len(raw) == 0 {
		if pemPath == "" {
			return nil, fmt.Errorf("kalshi private key is not set (need PEM text or key file path)")
		}
		data, err := os.ReadFile(pemPath)
		if err != nil {
			return nil, fmt.Errorf("read kalshi private key %s: %w", pemPath, err)
		}
		raw = data
	}

	key, err := parsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	return &Signer{keyID: keyID, key: key}, nil
}

func parsePrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("kalshi private key is not valid PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse kalshi private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("kalshi private key is not RSA")
	}
	return key, nil
}

// Headers signs method+path for the current moment and returns the three
// KALSHI-ACCESS-* headers.
func (s *Signer) Headers(method, path string) (http.Header, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	sig, err := s.sign(timestamp, method, path)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set("KALSHI-ACCESS-KEY", s.keyID)
	h.Set("KALSHI-ACCESS-TIMESTAMP", timestamp)
	h.Set("KALSHI-ACCESS-SIGNATURE", sig)
	return h, nil
}

func (s *Signer) sign(timestamp, method, path string) (string, error) {
	path = strings.SplitN(path, "?", 2)[0]
	message := timestamp + method + path

	hashed := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, hashed[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return "", fmt.Errorf("sign kalshi request: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
