package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/MKhiriev/vosh/internal/fault"
)

type treeStep struct {
	path   string
	prefix string
	last   bool
	root   bool
}

// Tree renders the directory subtree rooted at the resolved target, one line
// per entry. Unreadable directories are annotated inline instead of aborting
// the walk.
func (m *Manager) Tree(ctx context.Context, current, target string) ([]string, error) {
	root, err := m.jail.Resolve(current, target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fault.Wrap(fault.Resource, fmt.Errorf("%w: %s", ErrNotFound, target))
	}
	if !info.IsDir() {
		return nil, fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrNotDirectory, target))
	}

	var lines []string
	stack := []treeStep{{path: root, root: true}}
	for len(stack) > 0 {
		step := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		name := filepath.Base(step.path)
		childPrefix := step.prefix
		switch {
		case step.root:
			lines = append(lines, name)
		case step.last:
			lines = append(lines, step.prefix+"└── "+name)
			childPrefix += "    "
		default:
			lines = append(lines, step.prefix+"├── "+name)
			childPrefix += "│   "
		}

		stat, statErr := os.Lstat(step.path)
		if statErr != nil || !stat.IsDir() {
			continue
		}
		children, readErr := os.ReadDir(step.path)
		if readErr != nil {
			lines = append(lines, childPrefix+"[unreadable]")
			continue
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

		// Pushed in reverse so the stack pops them in listing order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, treeStep{
				path:   filepath.Join(step.path, children[i].Name()),
				prefix: childPrefix,
				last:   i == len(children)-1,
			})
		}
	}
	return lines, nil
}
