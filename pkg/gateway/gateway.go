// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package gateway adapts API Gateway HTTP API (payload format 2.0) and Lambda
// function URL events to the proxy's transport-neutral descriptors.
package gateway

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/go-core-stack/sports-stats-proxy/pkg/proxy"
)

// Handler is the function shape handed to lambda.Start.
type Handler func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// Requester is satisfied by *proxy.Proxy.
type Requester interface {
	Handle(ctx context.Context, req proxy.Request) proxy.Response
}

// NewHandler wraps p for the Lambda runtime. The returned error is always nil;
// failures are already encoded in the response.
func NewHandler(p Requester) Handler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		resp := p.Handle(ctx, Request(ctx, event))
		return Response(resp), nil
	}
}

// Request converts an HTTP API event into a proxy request.
func Request(ctx context.Context, event events.APIGatewayV2HTTPRequest) proxy.Request {
	return proxy.Request{
		Method:    event.RequestContext.HTTP.Method,
		Path:      event.RawPath,
		RawQuery:  event.RawQueryString,
		RequestID: requestID(ctx, event),
	}
}

// Response converts a proxy response into the HTTP API response shape.
func Response(resp proxy.Response) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

func requestID(ctx context.Context, event events.APIGatewayV2HTTPRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return event.RequestContext.RequestID
}
