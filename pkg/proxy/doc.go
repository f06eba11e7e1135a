// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package proxy forwards read requests to the API-Sports statistics API. It
// injects the upstream API key, passes the caller's path and query string
// through verbatim, and wraps the upstream JSON (or any failure) in a JSON
// envelope carrying CORS headers.
//
// The handler works on transport-neutral Request and Response descriptors so
// the same code serves Lambda events (see package gateway) and plain net/http
// traffic (ServeHTTP).
package proxy
