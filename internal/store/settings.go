package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const gatewaySecretKey = "gateway_secret"

// GatewaySecret returns the secret shared with the gateway for signing
// service tokens. The first call generates and stores it.
// INSERT OR IGNORE followed by a re-read keeps concurrent first starts consistent.
func (s *Store) GatewaySecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating gateway secret: %w", err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		gatewaySecretKey, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing gateway secret: %w", err)
	}

	var secret string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, gatewaySecretKey,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying gateway secret: %w", err)
	}

	return secret, nil
}
