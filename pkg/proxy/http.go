// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID carries a caller supplied correlation id.
const HeaderRequestID = "X-Request-Id"

// ServeHTTP lets the proxy run behind a plain net/http server.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp := p.Handle(r.Context(), Request{
		Method:    r.Method,
		Path:      r.URL.EscapedPath(),
		RawQuery:  r.URL.RawQuery,
		RequestID: requestID,
	})

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.WriteString(w, resp.Body); err != nil {
		p.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("write response failed")
	}
}
