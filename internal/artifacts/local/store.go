package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"medgateway-backend/internal/artifacts"
)

// Store implements artifacts.Store on the local filesystem for development.
type Store struct {
	dir     string
	baseURL string
}

// New creates a local artifact store rooted at dir. Returned URLs are
// baseURL/<folder>/<asset>.png.
func New(dir, baseURL string) *Store {
	if dir == "" {
		dir = "./data"
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) Upload(ctx context.Context, base64PNG, folder string) (string, error) {
	data, err := artifacts.DecodePNG(base64PNG)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".png"
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return s.baseURL + "/" + folder + "/" + name, nil
}

var _ artifacts.Store = (*Store)(nil)
