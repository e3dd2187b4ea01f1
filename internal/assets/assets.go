// Package assets copies a run's input files into a job's asset snapshot.
// The snapshot decouples the job from the operator's working tree: labeled
// file inputs always resolve against the snapshot, so a job remains
// reproducible after the original assets move or change.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Copied describes one file placed into the snapshot.
type Copied struct {
	Name string // base name within the snapshot
	Size int64
}

// Snapshot copies every named file into dir, in parallel. The first failure
// cancels the remaining copies and is returned; the returned slice lists
// the files that were copied successfully, sorted by name.
func Snapshot(ctx context.Context, files []string, dir string) ([]Copied, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create snapshot dir: %w", err)
	}

	var (
		mu     sync.Mutex
		copied []Copied
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(src)
			size, err := copyFile(src, filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("assets: copy %s: %w", src, err)
			}
			mu.Lock()
			copied = append(copied, Copied{Name: name, Size: size})
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sort.Slice(copied, func(i, j int) bool { return copied[i].Name < copied[j].Name })
	return copied, err
}

// Collect lists the regular, non-hidden files directly under dir, the
// convention for the operator-managed assets directory. A missing
// directory yields no assets, not an error.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("assets: read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}
	return n, nil
}
