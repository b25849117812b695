package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Grant is the result of a completed authorization.
type Grant struct {
	AccessToken string
	AccountID   string
}

// OAuth runs the authorization code flow against the provider.
type OAuth struct {
	conf *oauth2.Config
	http *http.Client
}

// NewOAuth builds the OAuth flow for cfg, redirecting back to redirectURL.
func NewOAuth(cfg Config, redirectURL string) *OAuth {
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     cfg.AppKey,
			ClientSecret: cfg.AppSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: redirectURL,
		},
		http: &http.Client{Timeout: cfg.Timeout()},
	}
}

// AuthCodeURL returns the provider page the user is sent to.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.conf.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token and the
// provider account id.
func (o *OAuth) Exchange(ctx context.Context, code string) (*Grant, error) {
	if code == "" {
		return nil, &Error{Kind: KindBadRequest, Summary: "missing authorization code"}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.http)
	tok, err := o.conf.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			kind := KindProvider
			if re.ErrorCode == "invalid_grant" || re.ErrorCode == "invalid_request" {
				kind = KindBadRequest
			}
			status := 0
			if re.Response != nil {
				status = re.Response.StatusCode
			}
			summary := re.ErrorCode
			if summary == "" {
				summary = string(re.Body)
			}
			return nil, &Error{Kind: kind, Status: status, Summary: summary}
		}
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	account, _ := tok.Extra("account_id").(string)
	if account == "" {
		return nil, &Error{Kind: KindProvider, Summary: "token response has no account_id"}
	}
	return &Grant{AccessToken: tok.AccessToken, AccountID: account}, nil
}
