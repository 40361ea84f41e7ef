package providers

import (
	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/config"
	"github.com/raygaledev/kiasu/internal/logger"
)

// AuthKey wraps the PASETO v4.local key bytes.
type AuthKey []byte

// ProvideAuthKey uses the configured key, or loads one from the data
// directory and creates it on first start.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		key    []byte
		err    error
		source = "config"
	)
	if cfg.Auth.AccessTokenKey != "" {
		key, err = auth.ParseKey(cfg.Auth.AccessTokenKey)
	} else {
		source = "data directory"
		key, err = auth.LoadOrGenerateKey(cfg.Data.BasePath)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"source", source,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(key), cfg.Auth.AccessTokenDuration)
}

// ProvidePasswordHasher provides the argon2id password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultArgon2Params), nil
}
