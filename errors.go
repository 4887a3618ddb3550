package zdict

import "errors"

var (
	// ErrKeyNotFound is returned by reads and deletes of an absent key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCorruptData means the compressed buffer could not be inflated or
	// parsed. The map should be discarded.
	ErrCorruptData = errors.New("corrupt data")
	// ErrCodec wraps failures of the serializer or the compressor, such as
	// a value with no JSON representation.
	ErrCodec = errors.New("codec error")
	// ErrInvalidInput reports malformed constructor arguments or config.
	ErrInvalidInput = errors.New("invalid input")
)
