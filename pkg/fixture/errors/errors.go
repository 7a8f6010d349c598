package errors

import "errors"

var (
	// Request errors 📋
	ErrInvalidBudget     = errors.New("❌ invalid byte budget")
	ErrUnsupportedFormat = errors.New("❌ unsupported format")

	// Generation errors 🧪
	ErrEncodingFailure = errors.New("❌ encoding failure")

	// Output errors 💾
	ErrSinkWriteFailure = errors.New("❌ sink write failure")
)

// IsTagged reports whether err already carries one of the error kinds above.
func IsTagged(err error) bool {
	return errors.Is(err, ErrInvalidBudget) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEncodingFailure) ||
		errors.Is(err, ErrSinkWriteFailure)
}
