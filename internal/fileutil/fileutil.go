package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MoveFile renames src to dst, falling back to copy-and-remove when the
// paths live on different filesystems.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// IsHidden reports whether the base name starts with a dot.
func IsHidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}

// Trash moves path into the user trash directory following the
// freedesktop layout (files/ plus a .trashinfo record), so a mistaken
// batch run stays recoverable. Name collisions get a numeric suffix.
func Trash(path string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	return trashInto(path, filepath.Join(home, ".local", "share", "Trash"))
}

func trashInto(path, trashRoot string) error {
	filesDir := filepath.Join(trashRoot, "files")
	infoDir := filepath.Join(trashRoot, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create trash directory: %w", err)
		}
	}

	base := filepath.Base(path)
	target := filepath.Join(filesDir, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			break
		}
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		target = filepath.Join(filesDir, fmt.Sprintf("%s.%d%s", stem, i, ext))
	}

	if err := MoveFile(path, target); err != nil {
		return fmt.Errorf("move to trash: %w", err)
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		path, time.Now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(infoDir, filepath.Base(target)+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("write trash info: %w", err)
	}
	return nil
}

// NewRemover returns the disposal policy for source files after a
// verified conversion: outright deletion when deleteOriginals is set,
// otherwise a move to the trash.
func NewRemover(deleteOriginals bool) func(string) error {
	if deleteOriginals {
		return os.Remove
	}
	return Trash
}
