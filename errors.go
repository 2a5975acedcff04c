package modplayer

import "errors"

var (
	// ErrShortBuffer is returned when a byte buffer is too small to hold a
	// valid MOD file header.
	ErrShortBuffer = errors.New("modplayer: buffer too short to be a MOD file")

	// ErrSizeInconsistent is returned when the buffer's declared pattern and
	// sample data don't fit inside the bytes actually supplied.
	ErrSizeInconsistent = errors.New("modplayer: buffer size inconsistent with header")

	// ErrUnrecognizedFormat describes a 4-byte format signature this parser
	// does not understand. NewModuleFromBytes accepts any signature and
	// never returns it.
	ErrUnrecognizedFormat = errors.New("modplayer: unrecognized MOD signature")
)
