// Package failure defines the error kinds shared by the puzzle, cipher and
// steganography packages. Components wrap one of the sentinels with detail,
// callers match with errors.Is.
package failure

import "errors"

var (
	// ErrValidation marks malformed or out-of-range input parameters.
	ErrValidation = errors.New("invalid input")
	// ErrCapacity marks a payload that does not fit in the carrier raster.
	ErrCapacity = errors.New("insufficient capacity")
	// ErrFormat marks structurally invalid envelopes or stego frames.
	ErrFormat = errors.New("invalid data format")
	// ErrAuthentication marks a failed tag check on decrypt.
	ErrAuthentication = errors.New("authentication failed")
)

// Kind returns the sentinel err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrCapacity, ErrFormat, ErrAuthentication} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Public returns text safe to show an untrusted user. Authentication and
// format failures on the reveal path collapse into one message so the
// response does not tell a wrong password apart from a damaged image.
func Public(err error) string {
	switch Kind(err) {
	case ErrAuthentication, ErrFormat:
		return "could not recover a message: incorrect password or corrupt/invalid image"
	case ErrCapacity:
		return "the image does not have enough capacity for this message"
	case ErrValidation:
		return err.Error()
	default:
		return "internal error"
	}
}
