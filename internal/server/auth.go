package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/config"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/oidc"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/tokens"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/middleware"
)

// NewVerifier builds the bearer token verifier for write protection, or nil
// when auth is not configured. With both a JWT secret and an OIDC issuer set,
// a token passes if either accepts it.
func NewVerifier(ctx context.Context, cfg *config.Config) (middleware.Verifier, error) {
	if !cfg.Auth.Enabled() {
		return nil, nil
	}
	var vs anyOf
	if cfg.Auth.JWTSecret != "" {
		v, err := tokens.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	if cfg.Auth.OIDCIssuer != "" && cfg.Auth.OIDCClientID != "" {
		v, err := oidc.NewVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	logger.Infof("write protection enabled (%d verifier(s))", len(vs))
	if len(vs) == 1 {
		return vs[0], nil
	}
	return vs, nil
}

type anyOf []middleware.Verifier

func (a anyOf) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	var errs []error
	for _, v := range a {
		tok, err := v.Verify(ctx, raw)
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("no verifier accepted the token: %w", errors.Join(errs...))
}
