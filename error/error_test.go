package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	src := []byte("{\n  \"name\": 1,\n}")
	tests := []struct {
		offset int64
		row    int
		col    int
	}{
		{offset: 0, row: 1, col: 1},
		{offset: 1, row: 1, col: 2},
		{offset: 2, row: 2, col: 1},
		{offset: 4, row: 2, col: 3},
		{offset: 100, row: 3, col: 2},
		{offset: -1, row: 0, col: 0},
	}
	for _, tt := range tests {
		row, col := Position(src, tt.offset)
		assert.Equal(t, tt.row, row, "offset: %v", tt.offset)
		assert.Equal(t, tt.col, col, "offset: %v", tt.offset)
	}
}

func TestSpecError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"start\": 1\n}\n"), 0644))

	cause := errors.New("start must be a string")
	err := &SpecError{
		Cause:      cause,
		FilePath:   path,
		SourceName: "grammar.json",
		Row:        2,
		Col:        12,
	}
	assert.Equal(t, "grammar.json: 2:12: error: start must be a string\n      \"start\": 1", err.Error())
	assert.ErrorIs(t, err, cause)

	errs := SpecErrors{err, &SpecError{Cause: cause}}
	assert.Equal(t, err.Error()+"\nerror: start must be a string", errs.Error())
}
