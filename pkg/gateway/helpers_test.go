// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package gateway

import (
	"net/url"
	"testing"

	"github.com/go-core-stack/sports-stats-proxy/pkg/config"
)

// proxyConfig returns a config without an API key, so no test can reach the
// real upstream.
func proxyConfig(t *testing.T) config.Config {
	t.Helper()

	upstreamURL, err := url.Parse("https://v1.formula-1.api-sports.io")
	if err != nil {
		t.Fatalf("parse upstream url: %v", err)
	}
	return config.Config{Upstream: upstreamURL, LogLevel: "info"}
}
