package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolveSources returns args unchanged unless the sole argument is "-", in
// which case paths are read one per line from stdin.
func ResolveSources(args []string, stdin io.Reader) ([]string, error) {
	if len(args) == 1 && args[0] == "-" {
		return ReadSourceList(stdin)
	}
	return args, nil
}

// ReadSourceList reads newline-delimited paths, ignoring blank lines.
func ReadSourceList(r io.Reader) ([]string, error) {
	var sources []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			sources = append(sources, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading source list: %w", err)
	}
	return sources, nil
}

// ExpandSources turns file and directory tokens into a sorted, de-duplicated
// file list. Directories contribute their direct children whose names end in
// one of exts (case-sensitive); subdirectories are not descended into. Any
// other token is kept as a cleaned file path, so a missing file surfaces later
// as a per-file error.
func ExpandSources(tokens []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, token := range tokens {
		info, err := os.Stat(token)
		if err != nil || !info.IsDir() {
			add(filepath.Clean(token))
			continue
		}

		entries, err := os.ReadDir(token)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", token, err)
		}
		for _, e := range entries {
			if e.IsDir() || !hasExtension(e.Name(), exts) {
				continue
			}
			p := filepath.Join(token, e.Name())
			if !e.Type().IsRegular() {
				st, err := os.Stat(p)
				if err != nil || !st.Mode().IsRegular() {
					continue
				}
			}
			add(p)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	for _, e := range exts {
		if e != "" && strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}
