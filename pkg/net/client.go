// Package net builds the authenticated HTTP client the publication
// pipeline talks to GitHub with.
package net

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// GetOAuthClient wraps the device-flow token in a static token source.
// The returned client injects the Authorization header on every request.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		TokenType:   "token",
		AccessToken: token,
	})
	return oauth2.NewClient(ctx, src)
}
