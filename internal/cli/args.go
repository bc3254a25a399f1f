// Package cli validates command-line arguments for the kimbo tool.
package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

type PathKind int

const (
	PathFile PathKind = iota
	PathDir
)

type ParsedPath struct {
	FullPath string
	Kind     PathKind
}

func ParseArgs(args []string) ([]ParsedPath, error) {
	if len(args) == 0 {
		return nil, &ValidationError{Arg: "<files>", Cause: "no files provided"}
	}

	var out []ParsedPath

	for _, raw := range args {
		p := filepath.Clean(raw)
		info, err := os.Stat(p)
		if err != nil {
			return nil, &ValidationError{Arg: raw, Cause: "not found or not accessible"}
		}

		kind := PathFile
		if info.IsDir() {
			kind = PathDir
		}

		out = append(out, ParsedPath{FullPath: p, Kind: kind})
	}

	return out, nil
}

// ExpandFiles lists the regular files named by parsed, walking directories
// recursively. Hidden files and directories inside a walked directory are
// skipped. Each file appears once, in argument order, directory contents
// sorted.
func ExpandFiles(parsed []ParsedPath) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range parsed {
		if p.Kind == PathFile {
			add(p.FullPath)
			continue
		}

		var found []string
		err := filepath.WalkDir(p.FullPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != p.FullPath && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p.FullPath, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, &ValidationError{Arg: "<files>", Cause: "no regular files found"}
	}
	return files, nil
}

// ParseImagePair validates the two image paths of a face comparison.
func ParseImagePair(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", &ValidationError{Arg: strings.Join(args, " "), Cause: "exactly two images are required"}
	}

	parsed, err := ParseArgs(args)
	if err != nil {
		return "", "", err
	}
	for i, p := range parsed {
		if p.Kind != PathFile {
			return "", "", &ValidationError{Arg: args[i], Cause: "is a directory"}
		}
	}
	return parsed[0].FullPath, parsed[1].FullPath, nil
}
