// Package artifacts stores derived prediction photos and hands back
// durable URLs for history entries.
package artifacts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Store uploads a derived image and returns a durable URL for it.
type Store interface {
	// Upload persists a base64-encoded PNG under the given folder
	// (keyed by user id) and returns its secure URL.
	Upload(ctx context.Context, base64PNG, folder string) (string, error)
}

// DecodePNG strips an optional data-URL prefix and decodes the base64 payload.
func DecodePNG(base64PNG string) ([]byte, error) {
	payload := strings.TrimSpace(base64PNG)
	if payload == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}
