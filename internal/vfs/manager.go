// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/logger"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name   string
	IsDir  bool
	Size   int64
	Digest string // keyed digest of file contents, empty for directories
}

// EntryResult records the outcome of one filesystem step inside a recursive
// operation, so partial failures can be reported entry by entry.
type EntryResult struct {
	Path string
	Err  error
}

// Ok reports whether the step succeeded.
func (r EntryResult) Ok() bool { return r.Err == nil }

// Manager performs file management inside a single user's jail. One Manager
// is built per authenticated session.
type Manager struct {
	jail   *Jail
	hasher crypto.Hasher
	logger *logger.Logger
}

// NewManager returns a Manager bound to jail.
func NewManager(jail *Jail, hasher crypto.Hasher, log *logger.Logger) *Manager {
	return &Manager{jail: jail, hasher: hasher, logger: log}
}

// Home returns the jail root, which doubles as the session's home directory.
func (m *Manager) Home() string {
	return m.jail.Root()
}

// Resolve exposes jail resolution for callers that need the raw path, such
// as script replay opening a command file.
func (m *Manager) Resolve(current, input string) (string, error) {
	return m.jail.Resolve(current, input)
}

// ChangeDirectory resolves target against current and returns the new
// working directory. An empty target means the parent, same as "..", and a
// parent that would leave the jail forces the session back to home rather
// than leaving it in an undefined location.
func (m *Manager) ChangeDirectory(ctx context.Context, current, target string) (string, error) {
	if target == "" {
		target = ".."
	}

	resolved, err := m.jail.Resolve(current, target)
	if err != nil {
		return m.jail.Root(), err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return current, fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, target))
	}
	if !info.IsDir() {
		return current, fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrNotDirectory, target))
	}
	return resolved, nil
}

// List reads the directory at current resolved against target and returns
// its entries sorted by name. Files carry a content digest so listings can
// be compared across sessions without exposing plaintext.
func (m *Manager) List(ctx context.Context, current, target string) ([]Entry, error) {
	dir, err := m.jail.Resolve(current, target)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, target))
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		e := Entry{Name: de.Name(), IsDir: de.IsDir()}
		if info, infoErr := de.Info(); infoErr == nil && !de.IsDir() {
			e.Size = info.Size()
			if data, readErr := os.ReadFile(filepath.Join(dir, de.Name())); readErr == nil {
				e.Digest = m.hasher.DigestBytes(data)
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// MakeDirectory creates a single directory at the resolved path.
func (m *Manager) MakeDirectory(ctx context.Context, current, name string) error {
	if name == "" {
		return fault.Wrap(fault.Validation, fmt.Errorf("%w: empty name", ErrNotFound))
	}

	resolved, err := m.jail.Resolve(current, name)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(resolved); statErr == nil {
		return fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrDestinationExists, name))
	}
	if mkErr := os.Mkdir(resolved, 0o755); mkErr != nil {
		return fault.Wrap(fault.Resource, mkErr)
	}
	return nil
}

// Rename moves src to dst within the same jail without overwriting. An
// existing destination is rejected before the rename is attempted.
func (m *Manager) Rename(ctx context.Context, current, src, dst string) error {
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
	if renameErr := os.Rename(srcPath, dstPath); renameErr != nil {
		return fault.Wrap(fault.Resource, renameErr)
	}
	return nil
}

// copyStep is one pending unit of work during a recursive copy.
type copyStep struct {
	src string
	dst string
}

// Copy copies src to dst recursively. The traversal uses an explicit
// worklist and keeps going past individual failures, so the returned results
// name every entry that was attempted. The error is non-nil only when the
// operation could not start at all.
func (m *Manager) Copy(ctx context.Context, current, src, dst string) ([]EntryResult, error) {
	srcPath, err := m.jail.Resolve(current, src)
	if err != nil {
		return nil, err
	}
	dstPath, err := m.jail.Resolve(current, dst)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(srcPath); statErr != nil {
		return nil, fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, src))
	}

	// Copying into an existing directory lands under it, like cp does.
	if info, statErr := os.Stat(dstPath); statErr == nil && info.IsDir() {
		dstPath = filepath.Join(dstPath, filepath.Base(srcPath))
	}
	if srcPath == dstPath || m.isUnder(dstPath, srcPath) {
		return nil, fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrDestinationExists, dst))
	}

	var results []EntryResult
	work := []copyStep{{src: srcPath, dst: dstPath}}
	for len(work) > 0 {
		step := work[0]
		work = work[1:]

		info, statErr := os.Stat(step.src)
		if statErr != nil {
			results = append(results, EntryResult{Path: step.src, Err: statErr})
			continue
		}

		if !info.IsDir() {
			results = append(results, EntryResult{Path: step.src, Err: m.copyFile(step.src, step.dst, info)})
			continue
		}

		if mkErr := os.MkdirAll(step.dst, 0o755); mkErr != nil {
			results = append(results, EntryResult{Path: step.src, Err: mkErr})
			continue
		}
		results = append(results, EntryResult{Path: step.src})

		children, readErr := os.ReadDir(step.src)
		if readErr != nil {
			results = append(results, EntryResult{Path: step.src, Err: readErr})
			continue
		}
		for _, child := range children {
			work = append(work, copyStep{
				src: filepath.Join(step.src, child.Name()),
				dst: filepath.Join(step.dst, child.Name()),
			})
		}
	}

	m.logger.Info().Str("func", "Copy").Str("src", srcPath).Str("dst", dstPath).Int("entries", len(results)).Msg("copy finished")
	return results, nil
}

// Delete removes the resolved target recursively. Children go before their
// parents, and the first failure aborts the whole operation so a directory
// is never removed above a child that could not be.
func (m *Manager) Delete(ctx context.Context, current, target string) ([]EntryResult, error) {
	path, err := m.jail.Resolve(current, target)
	if err != nil {
		return nil, err
	}
	if path == m.jail.Root() {
		return nil, fault.Wrap(fault.Validation, fmt.Errorf("%w: refusing to delete home", ErrOutsideJail))
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, target))
	}

	order, err := m.postOrder(path)
	if err != nil {
		return nil, fault.Wrap(fault.Resource, err)
	}

	var results []EntryResult
	for _, p := range order {
		if rmErr := os.Remove(p); rmErr != nil {
			results = append(results, EntryResult{Path: p, Err: rmErr})
			return results, fault.Wrap(fault.Resource, rmErr)
		}
		results = append(results, EntryResult{Path: p})
	}

	m.logger.Info().Str("func", "Delete").Str("path", path).Int("entries", len(results)).Msg("delete finished")
	return results, nil
}

// Move copies src to dst and removes the source only when every entry
// copied cleanly. A partial copy leaves the source untouched.
func (m *Manager) Move(ctx context.Context, current, src, dst string) ([]EntryResult, error) {
	copied, err := m.Copy(ctx, current, src, dst)
	if err != nil {
		return nil, err
	}
	for _, r := range copied {
		if !r.Ok() {
			return copied, fault.Wrap(fault.Resource, fmt.Errorf("copy incomplete, source kept"))
		}
	}

	deleted, err := m.Delete(ctx, current, src)
	results := append(copied, deleted...)
	if err != nil {
		return results, err
	}
	return results, nil
}

// postOrder lists path and everything under it with children ahead of their
// parents, using an explicit stack rather than recursion.
func (m *Manager) postOrder(path string) ([]string, error) {
	var order []string
	stack := []string{path}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, p)

		info, err := os.Lstat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		children, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			stack = append(stack, filepath.Join(p, child.Name()))
		}
	}

	// Reversing the pre-order visit yields children before parents.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

func (m *Manager) copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (m *Manager) isUnder(path, ancestor string) bool {
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !filepath.IsAbs(rel) &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
