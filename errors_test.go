package blockcache

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrLoadFailed_Unwrap(t *testing.T) {
	err := &ErrLoadFailed{Index: 3, Path: "blk00003.dat", cause: io.ErrUnexpectedEOF}

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "blk00003.dat")
	assert.Contains(t, err.Error(), "3")
}

func TestErrOutOfRange_Message(t *testing.T) {
	err := &ErrOutOfRange{Index: 1, Offset: 90, Length: 20, FileSize: 100}

	assert.Contains(t, err.Error(), "[90, 110)")
	assert.Contains(t, err.Error(), "size 100")

	var oor *ErrOutOfRange
	assert.True(t, errors.As(error(err), &oor))
}
