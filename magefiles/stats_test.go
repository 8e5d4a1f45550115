// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("one two\nthree\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("  four  \n\n"), 0o644))

	words, err := sumGlob(filepath.Join(dir, "*.md"), countWords)
	require.NoError(t, err)
	assert.Equal(t, 4, words)

	lines, err := sumGlob(filepath.Join(dir, "*.md"), countLines)
	require.NoError(t, err)
	assert.Equal(t, 4, lines)

	none, err := sumGlob(filepath.Join(dir, "*.sql"), countLines)
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestSumGlobBadPattern(t *testing.T) {
	_, err := sumGlob("[", countLines)
	assert.ErrorIs(t, err, filepath.ErrBadPattern)
}
