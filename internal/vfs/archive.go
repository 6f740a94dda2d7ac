package vfs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/vosh/internal/fault"
)

// Archiver packs and extracts archives without ever writing outside the
// jail. Manager carries the zip implementation; the interface keeps the
// shell's zip commands independent of the archive format.
type Archiver interface {
	Zip(ctx context.Context, current, src, dst string) error
	Unzip(ctx context.Context, current, src, dst string) error
}

var _ Archiver = (*Manager)(nil)

// Zip packs the resolved source into a zip archive at the resolved
// destination. Archive member names are stored relative to the source so
// extraction recreates the same shape anywhere inside a jail.
func (m *Manager) Zip(ctx context.Context, current, src, dst string) error {
	srcPath, err := m.jail.Resolve(current, src)
	if err != nil {
		return err
	}
	dstPath, err := m.jail.Resolve(current, dst)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(srcPath); statErr != nil {
		return fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, src))
	}
	if _, statErr := os.Stat(dstPath); statErr == nil {
		return fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrDestinationExists, dst))
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)
	base := filepath.Dir(srcPath)
	walkErr := filepath.WalkDir(srcPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(base, path)
		if relErr != nil {
			return relErr
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			_, dirErr := zw.Create(name + "/")
			return dirErr
		}

		w, createErr := zw.Create(name)
		if createErr != nil {
			return createErr
		}
		in, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer func() { _ = in.Close() }()
		_, copyErr := io.Copy(w, in)
		return copyErr
	})
	if walkErr != nil {
		_ = zw.Close()
		return fault.Wrap(fault.Resource, walkErr)
	}
	if closeErr := zw.Close(); closeErr != nil {
		return fault.Wrap(fault.Resource, closeErr)
	}

	m.logger.Info().Str("func", "Zip").Str("src", srcPath).Str("dst", dstPath).Msg("archive written")
	return nil
}

// Unzip extracts the resolved archive under the resolved destination
// directory. Member names are re-checked against the jail so a crafted
// archive cannot write outside it.
func (m *Manager) Unzip(ctx context.Context, current, src, dst string) error {
	srcPath, err := m.jail.Resolve(current, src)
	if err != nil {
		return err
	}
	dstPath, err := m.jail.Resolve(current, dst)
	if err != nil {
		return err
	}

	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, src))
	}
	defer func() { _ = r.Close() }()

	if mkErr := os.MkdirAll(dstPath, 0o755); mkErr != nil {
		return fault.Wrap(fault.Resource, mkErr)
	}

	for _, f := range r.File {
		name := filepath.FromSlash(f.Name)
		target := filepath.Clean(filepath.Join(dstPath, name))
		if !m.jail.Contains(target) || strings.Contains(name, "..") {
			return fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrOutsideJail, f.Name))
		}

		if f.FileInfo().IsDir() {
			if mkErr := os.MkdirAll(target, 0o755); mkErr != nil {
				return fault.Wrap(fault.Resource, mkErr)
			}
			continue
		}
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return fault.Wrap(fault.Resource, mkErr)
		}
		if extractErr := extractFile(f, target); extractErr != nil {
			return fault.Wrap(fault.Resource, extractErr)
		}
	}

	m.logger.Info().Str("func", "Unzip").Str("src", srcPath).Str("dst", dstPath).Int("members", len(r.File)).Msg("archive extracted")
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
