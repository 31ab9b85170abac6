package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/jwtx"
)

// InitSessionKeys builds the session signer and its verifier.
//
// Algorithms:
//   - "HS256": shared secret from SESSION_SECRET. Without one a random secret
//     is generated and sessions do not survive a restart.
//   - "EdDSA": Ed25519 key read from SESSION_KEY_FILE, created on first start.
func InitSessionKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	opts := jwtx.VerifyOptions{Issuer: cfg.SessionIssuer}

	switch strings.ToUpper(cfg.SessionAlgorithm) {
	case "EDDSA":
		key, err := cryptox.LoadOrGenerateEd25519Key(cfg.SessionKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load session key: %w", err)
		}
		signer, err := jwtx.NewSignerEdDSA(key)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session signer ready", "algorithm", signer.Alg(), "key_file", cfg.SessionKeyFile)
		return signer, signer.Verifier(opts), nil

	case "HS256":
		secret := cfg.SessionSecret
		if secret == "" {
			generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return nil, nil, err
			}
			secret = generated
			logger.Warn("no SESSION_SECRET set, using a random secret; sessions end on restart")
		}
		signer, err := jwtx.NewSignerHS256([]byte(secret))
		if err != nil {
			return nil, nil, fmt.Errorf("session secret: %w", err)
		}
		logger.Info("session signer ready", "algorithm", signer.Alg())
		return signer, signer.Verifier(opts), nil

	default:
		return nil, nil, fmt.Errorf("unsupported SESSION_ALGORITHM %q", cfg.SessionAlgorithm)
	}
}
