package app

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"stargazer/internal/notes"
)

const maxPhotoBytes = 10 << 20

func readPhoto(path string) (notes.Photo, error) {
	path = expandHome(strings.TrimSpace(path))
	info, err := os.Stat(path)
	if err != nil {
		return notes.Photo{}, fmt.Errorf("read photo: %w", err)
	}
	if info.IsDir() {
		return notes.Photo{}, fmt.Errorf("read photo: %s is a directory", path)
	}
	if info.Size() > maxPhotoBytes {
		return notes.Photo{}, ErrPhotoTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return notes.Photo{}, fmt.Errorf("read photo: %w", err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return notes.Photo{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
