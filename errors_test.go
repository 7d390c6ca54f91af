package zipstream

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	perr := &PathError{Path: "foo//bar", Reason: "consecutive slashes"}
	assert.ErrorIs(t, perr, ErrPath)
	assert.Contains(t, perr.Error(), `"foo//bar"`)
	assert.Contains(t, perr.Error(), "consecutive slashes")

	merr := &MethodError{Method: 12}
	assert.ErrorIs(t, merr, ErrMethod)
	assert.Contains(t, merr.Error(), "12")

	inner := fs.ErrNotExist
	ferr := &FileError{Path: "/tmp/gone", Err: inner}
	assert.ErrorIs(t, ferr, ErrFile)
	assert.ErrorIs(t, ferr, inner)
	assert.Contains(t, ferr.Error(), "/tmp/gone")

	assert.ErrorIs(t, ErrDuplicatePath, ErrState)
	assert.False(t, errors.Is(ErrPath, ErrState))
}

func TestMethodString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "store", MethodStore.String())
	assert.Equal(t, "deflate", MethodDeflate.String())
	assert.Equal(t, "unknown", Method(42).String())

	assert.Equal(t, uint16(0), MethodStore.wire())
	assert.Equal(t, uint16(8), MethodDeflate.wire())
}
