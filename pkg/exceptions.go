package pkg

import "errors"

var (
	// Verification errors 🔍
	ErrUnknownExtension   = errors.New("❌ no format matches file extension")
	ErrMalformedFixture   = errors.New("❌ fixture is not structurally valid")
	ErrDuplicateEntryName = errors.New("❌ archive contains duplicate entry names")
)
