// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Every response carries the same header set, whatever path produced it.
var responseHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "GET,OPTIONS,POST,PUT,DELETE",
	"Access-Control-Max-Age":       "86400",
}

// fallbackBody is used when an envelope itself cannot be encoded.
const fallbackBody = `{"error":"Internal server error"}`

// Request describes one inbound call independent of its transport.
type Request struct {
	Method    string
	Path      string // raw path, already escaped
	RawQuery  string // raw query string without the leading '?'
	RequestID string // correlation id for logs only
}

// Response describes the reply to an inbound call.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

type ackBody struct {
	Status string `json:"status"`
}

type successBody struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type errorBody struct {
	Error         string `json:"error"`
	Details       string `json:"details,omitempty"`
	RequestedPath string `json:"requested_path,omitempty"`
}

// UpstreamPath joins the raw path and query exactly as received.
func UpstreamPath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func newHeaders() map[string]string {
	headers := make(map[string]string, len(responseHeaders))
	for k, v := range responseHeaders {
		headers[k] = v
	}
	return headers
}

func jsonResponse(status int, body any) Response {
	return Response{
		StatusCode: status,
		Headers:    newHeaders(),
		Body:       encode(body),
	}
}

func errorResponse(body errorBody) Response {
	return jsonResponse(http.StatusInternalServerError, body)
}

// encode renders compact JSON without HTML escaping so upstream strings pass
// through unchanged.
func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fallbackBody
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
