package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dusk-indust/docpipe/internal/scaffold"
)

// runInit installs the starter workflow, templates, and project config into
// the target directory.
func runInit(dir string, force bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving target dir: %w", err)
	}

	err = fs.WalkDir(scaffold.StarterFS, scaffold.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(scaffold.Root, path)
		if err != nil {
			return err
		}

		dest := filepath.Join(abs, rel)

		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		if !force {
			if _, err := os.Stat(dest); err == nil {
				fmt.Printf("  skipped %s (exists, use -force to overwrite)\n", dotRelative(abs, dest))
				return nil
			}
		}

		data, err := scaffold.StarterFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded %s: %w", path, err)
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}

		fmt.Printf("  created %s\n", dotRelative(abs, dest))
		return nil
	})
	if err != nil {
		return fmt.Errorf("copying starter files: %w", err)
	}

	fmt.Println("\nSetup complete. Put input files in assets/ and run 'docpipe -dry-run'.")
	return nil
}

// dotRelative returns a display path relative to the target dir, prefixed
// with "./".
func dotRelative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return "./" + rel
}
