package history

import (
	"crypto/md5"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HashDirectory computes a stable md5 over the directory's file names and
// contents, recursively. Used to skip re-importing an unchanged export.
func HashDirectory(dir string) (string, error) {
	h := md5.New()
	if err := hashDir(dir, h); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func hashDir(dir string, h hash.Hash) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		h.Write([]byte(entry.Name()))
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := hashDir(path, h); err != nil {
				return err
			}
			continue
		}
		if err := hashFile(path, h); err != nil {
			return err
		}
	}
	return nil
}

func hashFile(path string, h hash.Hash) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	return nil
}
