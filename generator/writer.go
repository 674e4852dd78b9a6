package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Artifact is a generated file.
type Artifact struct {
	Path    string
	Content []byte
	Written bool
}

// write stores the artifact; an existing file is replaced only when overwrite is set.
func (a *Artifact) write(overwrite bool) error {
	if _, err := os.Stat(a.Path); err == nil {
		if !overwrite {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", a.Path, err)
	}
	if err := writeFile(a.Path, a.Content); err != nil {
		return err
	}
	a.Written = true
	return nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, fileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
