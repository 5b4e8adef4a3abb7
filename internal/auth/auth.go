// Package auth provides consensus API authentication using HMAC-SHA256 tokens.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Header names expected by the API gateway.
const (
	HeaderAPIKey   = "x-api-key"
	HeaderAPIToken = "x-api-token"
)

// Credentials holds the API key and secret used to sign requests.
type Credentials struct {
	APIKey    string // API key issued by the consensus portal
	APISecret string // Shared secret for the HMAC token

	now func() time.Time
}

// NewCredentials validates and returns credentials for the given key pair.
func NewCredentials(apiKey, apiSecret string) (*Credentials, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if apiSecret == "" {
		return nil, errors.New("API secret is required")
	}
	return &Credentials{
		APIKey:    apiKey,
		APISecret: apiSecret,
		now:       time.Now,
	}, nil
}

// Token returns the short-lived token for the given instant.
// Format: unix_seconds + "." + hex(HMAC-SHA256(secret, unix_seconds + ":" + key))
func (c *Credentials) Token(at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)

	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(ts + ":" + c.APIKey))

	return ts + "." + hex.EncodeToString(mac.Sum(nil))
}

// SignRequest generates the header set for a single API request.
// A new token is minted on every call.
func (c *Credentials) SignRequest() map[string]string {
	now := c.now
	if now == nil {
		now = time.Now
	}

	return map[string]string{
		HeaderAPIKey:   c.APIKey,
		HeaderAPIToken: c.Token(now()),
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
