package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/einlint/internal/cli/config"
	"github.com/leapstack-labs/einlint/internal/manifest"
	script "github.com/leapstack-labs/einlint/internal/starlark"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

// Checkable file extensions.
const (
	extScript = ".star"
	extYAML   = ".yaml"
	extYML    = ".yml"
)

func isCheckable(path string) bool {
	switch filepath.Ext(path) {
	case extScript, extYAML, extYML:
	default:
		return false
	}
	return !slices.Contains(config.ConfigFileNames, filepath.Base(path))
}

// discoverFiles expands paths into the checkable files they name.
// Directories are walked recursively, skipping hidden ones and einlint
// config files. Files named explicitly must have a checkable extension.
// The result keeps argument order and drops duplicates.
func discoverFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot check %s: %w", root, err)
		}
		if !info.IsDir() {
			switch filepath.Ext(root) {
			case extScript, extYAML, extYML:
				add(root)
			default:
				return nil, fmt.Errorf("cannot check %s: expected a .star, .yaml or .yml file", root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isCheckable(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return files, nil
}

// fileRun is what running one file produced, whatever its front-end.
type fileRun struct {
	Expressions int
	Executed    int
	Infos       []lint.Info
}

// runFile runs one manifest or script against c. module is attached to
// script locations and to manifests that do not name their own.
func runFile(ctx context.Context, c *lint.Checker, pool *script.ThreadPool, module, path string) (fileRun, error) {
	if filepath.Ext(path) == extScript {
		res, err := script.NewRunner(c, pool, module).RunFile(ctx, path)
		if res == nil {
			return fileRun{}, err
		}
		return fileRun{Expressions: res.Expressions, Executed: res.Executed, Infos: res.Infos}, err
	}

	m, err := manifest.Load(path)
	if err != nil {
		return fileRun{}, err
	}
	if m.Module == "" && module != "" {
		m.SetModule(module)
	}
	res, err := manifest.Run(ctx, c, m)
	if res == nil {
		return fileRun{}, err
	}
	return fileRun{Expressions: res.Expressions, Executed: res.Executed, Infos: res.Infos}, err
}
