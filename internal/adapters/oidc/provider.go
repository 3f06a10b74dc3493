// Package oidc implements sign-in with Google and Apple via standard
// OIDC discovery and the authorization code flow.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/clearmed/clearmed-api/internal/domain/auth"
)

// Issuer URLs for the supported identity providers.
const (
	GoogleIssuer = "https://accounts.google.com"
	AppleIssuer  = "https://appleid.apple.com"
)

// ProviderConfig holds what NewProvider needs to set up one identity
// provider.
type ProviderConfig struct {
	Name         auth.Provider
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	HTTPClient   *http.Client
}

// Provider wraps go-oidc discovery, token exchange and ID-token
// verification for a single identity provider.
type Provider struct {
	name     auth.Provider
	config   *oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

// NewProvider fetches the issuer's discovery document and builds the OAuth2
// configuration from it.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("client ID and secret are required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}

	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	op, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", cfg.Name, err)
	}

	return &Provider{
		name: cfg.Name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "email", "profile"},
			Endpoint:     op.Endpoint(),
		},
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *Provider) Name() auth.Provider { return p.name }

// Begin returns the authorization URL plus the state and nonce the caller
// must stash (cookie or cache) for verification on callback.
func (p *Provider) Begin(_ context.Context) (authURL, state, nonce string, err error) {
	state, err = randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err = randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL = p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange redeems the authorization code, verifies the ID token against the
// issuer's keys and the expected nonce, and maps the claims to an Identity.
func (p *Provider) Exchange(ctx context.Context, code, nonce string) (auth.Identity, error) {
	if code == "" {
		return auth.Identity{}, errors.New("authorization code is required")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("exchange code: %w", err)
	}
	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return auth.Identity{}, errors.New("token response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Nonce      string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return auth.Identity{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	if nonce != "" && claims.Nonce != nonce {
		return auth.Identity{}, errors.New("id_token nonce mismatch")
	}
	if claims.Email == "" {
		return auth.Identity{}, errors.New("id_token missing email claim")
	}

	name := claims.Name
	if name == "" && (claims.GivenName != "" || claims.FamilyName != "") {
		name = joinName(claims.GivenName, claims.FamilyName)
	}

	return auth.Identity{
		Email:    claims.Email,
		Name:     name,
		Provider: p.name,
	}, nil
}

func joinName(given, family string) string {
	switch {
	case given == "":
		return family
	case family == "":
		return given
	default:
		return given + " " + family
	}
}

// randomToken returns a URL-safe random string of exactly n characters.
func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
