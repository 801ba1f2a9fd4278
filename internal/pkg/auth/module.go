package auth

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
)

const defaultSecretWarning = "change-me-in-production"

// Module provides password hashing and the bearer token strategy.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher(cfg *config.Config) PasswordHasher {
	return NewBcryptHasher(cfg.PasswordCost)
}

type strategyParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger `optional:"true"`
}

func newTokenStrategy(p strategyParams) Strategy {
	if p.Config.JWTSecret == defaultSecretWarning && p.Logger != nil {
		p.Logger.Warn("auth tokens are signed with the built-in development secret")
	}
	return NewHMACStrategy(p.Config.JWTSecret, Options{TTL: p.Config.TokenTTL})
}
