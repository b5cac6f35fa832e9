package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/otakuhub/backend/config"
	"golang.org/x/oauth2"
)

type OAuth2Service struct {
	*oidc.Provider
	oauth2.Config

	name string
}

func NewOAuth2Service(ctx context.Context, cfg config.OAuth2Configs) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	oauth2Cfg := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &OAuth2Service{name: cfg.Name, Provider: provider, Config: oauth2Cfg}, nil
}

func (s *OAuth2Service) Service() string {
	return s.name
}

func (s *OAuth2Service) AuthCodeURL(state string) string {
	return s.Config.AuthCodeURL(state)
}

func (s *OAuth2Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.Config.Exchange(ctx, code)
}

func (s *OAuth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (ServiceUser, error) {
	idToken, err := s.Verifier(&oidc.Config{ClientID: s.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return ServiceUser{}, err
	}

	var profile struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&profile); err != nil {
		return ServiceUser{}, errors.New("invalid id token")
	}

	if profile.Sub == "" {
		return ServiceUser{}, fmt.Errorf("no subject in %s id token", s.name)
	}

	return ServiceUser{
		ID:      profile.Sub,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	}, nil
}

func (s *OAuth2Service) VerifyExchangedToken(ctx context.Context, token *oauth2.Token) (ServiceUser, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return ServiceUser{}, errors.New("no id_token field in oauth2 token")
	}

	return s.VerifyIDToken(ctx, rawIDToken)
}
