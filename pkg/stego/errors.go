package stego

import "errors"

var (
	// ErrCapacityExceeded is returned when the message and terminator do not
	// fit in the image's channel budget.
	ErrCapacityExceeded = errors.New("message does not fit in image")

	// ErrUnsupportedImage is returned when the input cannot be viewed as RGB.
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrNoMessageFound is returned when the pixel stream ends before a terminator.
	ErrNoMessageFound = errors.New("no hidden message found")

	// ErrAmbiguousMessage is returned when the message itself contains the
	// terminator on a byte boundary and so could not be recovered intact.
	ErrAmbiguousMessage = errors.New("message contains the terminator sequence")
)
