// Package output writes generated artifacts to the configured output
// directory and reads prompt files.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbarrett/planwright/internal/agent"
	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
)

const backupTimeFormat = "20060102_150405"

// Writer persists generated files under a single output directory.
// Nested paths in file names create subdirectories as needed.
type Writer struct {
	dir     string
	backups bool
	log     *logging.Logger
}

// NewWriter creates the output directory and returns a writer for it.
func NewWriter(dir string, backups bool, log *logging.Logger) (*Writer, error) {
	if log == nil {
		log = logging.NopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", dir)
	}
	return &Writer{dir: dir, backups: backups, log: log}, nil
}

// Dir returns the output directory path.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteFile writes one generated file, backing up any existing version
// first when backups are enabled. Returns the absolute path written.
func (w *Writer) WriteFile(f agent.File) (string, error) {
	rel, err := sanitizeName(f.Name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, rel)

	if dir := filepath.Dir(path); dir != w.dir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "create directory for %s", rel)
		}
	}

	if w.backups {
		if _, err := os.Stat(path); err == nil {
			if backupPath, err := w.backup(path); err != nil {
				w.log.Warn("backup failed, overwriting anyway", "file", rel, "error", err)
			} else {
				w.log.Debug("backed up previous version", "file", rel, "backup", backupPath)
			}
		}
	}

	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", rel)
	}
	w.log.Debug("file written", "file", rel, "bytes", len(f.Content))
	return path, nil
}

// WriteFiles writes every file and returns the paths written. It stops
// at the first failure.
func (w *Writer) WriteFiles(files []agent.File) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p, err := w.WriteFile(f)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Validate checks that the output directory is writable.
func (w *Writer) Validate() error {
	probe := filepath.Join(w.dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return errors.Wrapf(err, "output directory %s is not writable", w.dir)
	}
	return os.Remove(probe)
}

// backup copies an existing file aside before it gets overwritten. The
// copy sits next to the original as name.backup_<timestamp>.ext.
func (w *Writer) backup(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	backupName := fmt.Sprintf("%s.backup_%s%s", stem, time.Now().Format(backupTimeFormat), ext)
	backupPath := filepath.Join(filepath.Dir(path), backupName)

	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return backupPath, dst.Close()
}

// sanitizeName rejects file names that would escape the output
// directory.
func sanitizeName(name string) (string, error) {
	if name == "" {
		return "", errors.NewValidationError("empty file name").WithField("name")
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.NewValidationError("file name escapes output directory").
			WithField("name").WithValue(name)
	}
	return clean, nil
}

// ReadPromptFile reads a project prompt from a .txt file and trims
// surrounding whitespace.
func ReadPromptFile(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return "", errors.NewValidationError("only .txt files are supported for prompts").
			WithField("path").WithValue(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read prompt file %s", path)
	}
	return strings.TrimSpace(string(data)), nil
}
