// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceStats is the record printed by Stats.
type sourceStats struct {
	ProdLines      int            `json:"go_loc_prod"`
	TestLines      int            `json:"go_loc_test"`
	TotalLines     int            `json:"go_loc"`
	MigrationLines int            `json:"sql_loc"`
	DocWords       int            `json:"doc_wc"`
	Packages       map[string]int `json:"packages"`
}

// Stats prints Go lines of code per package, migration lines and
// documentation word counts as one JSON record.
func Stats() error {
	st := sourceStats{Packages: make(map[string]int)}
	if err := filepath.WalkDir(".", st.visit); err != nil {
		return err
	}
	st.TotalLines = st.ProdLines + st.TestLines

	var err error
	if st.MigrationLines, err = sumGlob("internal/store/migrations/*.sql", countLines); err != nil {
		return err
	}
	if st.DocWords, err = sumGlob("*.md", countWords); err != nil {
		return err
	}

	line, err := json.Marshal(st)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// visit counts one Go file. Build tooling, vendored code and directories
// hidden from the go tool are skipped.
func (st *sourceStats) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	if d.IsDir() {
		name := d.Name()
		if path != "." && (name == "vendor" || name == "magefiles" || path == binaryDir ||
			strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return nil
	}
	if filepath.Ext(path) != ".go" {
		return nil
	}
	n, err := countLines(path)
	if err != nil {
		return fmt.Errorf("counting %s: %w", path, err)
	}
	if strings.HasSuffix(path, "_test.go") {
		st.TestLines += n
		return nil
	}
	st.ProdLines += n
	st.Packages[filepath.ToSlash(filepath.Dir(path))] += n
	return nil
}

// sumGlob applies count to every file matching pattern and adds the results.
func sumGlob(pattern string, count func(string) (int, error)) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	total := 0
	for _, path := range matches {
		n, err := count(path)
		if err != nil {
			return 0, fmt.Errorf("counting %s: %w", path, err)
		}
		total += n
	}
	return total, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n, sc.Err()
}

func countWords(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return len(bytes.Fields(data)), nil
}
