package auth

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/marketplace/internal/config"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher := newPasswordHasher(&config.Config{PasswordCost: bcrypt.MinCost})
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.MinCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewTokenStrategy(t *testing.T) {
	strategy := newTokenStrategy(strategyParams{Config: &config.Config{JWTSecret: "top-secret", TokenTTL: time.Hour}})
	hmacStrategy, ok := strategy.(*HMACStrategy)
	if !ok {
		t.Fatalf("expected *HMACStrategy, got %T", strategy)
	}
	if string(hmacStrategy.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(hmacStrategy.secret))
	}
	if hmacStrategy.ttl != time.Hour {
		t.Fatalf("unexpected ttl: %s", hmacStrategy.ttl)
	}
}

func TestNewTokenStrategyWarnsOnDevelopmentSecret(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	strategy := newTokenStrategy(strategyParams{Config: &config.Config{JWTSecret: defaultSecretWarning}, Logger: logger})
	if strategy.(*HMACStrategy).ttl != 24*time.Hour {
		t.Fatalf("expected default ttl when none configured")
	}
	if !strings.Contains(buf.String(), "development secret") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}
