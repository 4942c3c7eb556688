// Package local stores artifacts on the local filesystem for the datagen CLI.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type DirRepo struct {
	Root string
}

func NewDirRepo(root string) *DirRepo {
	return &DirRepo{Root: root}
}

// Upload writes data under Root, creating parent directories. The content
// type is ignored.
func (r *DirRepo) Upload(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := r.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *DirRepo) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact key %q escapes output dir", key)
	}
	return filepath.Join(r.Root, clean), nil
}
