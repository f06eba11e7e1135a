// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"errors"
	"net/http"
)

const (
	HeaderHost = "x-rapidapi-host"
	HeaderKey  = "x-rapidapi-key"
)

// ErrMissingKey is returned by Attach when no secret key is configured.
var ErrMissingKey = errors.New("upstream api key is not configured")

// Credentials injects the API-Sports auth headers on outbound requests.
type Credentials struct {
	Host string
	Key  string
}

// NewCredentials constructs credentials for the given upstream host and key.
func NewCredentials(host, key string) *Credentials {
	return &Credentials{
		Host: host,
		Key:  key,
	}
}

// Configured reports whether a secret key is available.
func (c *Credentials) Configured() bool {
	return c != nil && c.Key != ""
}

// Attach mutates the request by setting the host identifier and secret key
// headers.
func (c *Credentials) Attach(req *http.Request) error {
	if !c.Configured() {
		return ErrMissingKey
	}

	// Header.Set canonicalises the names; the upstream matches them
	// case-insensitively.
	req.Header.Set(HeaderHost, c.Host)
	req.Header.Set(HeaderKey, c.Key)

	return nil
}
