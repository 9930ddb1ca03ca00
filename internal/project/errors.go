package project

import "errors"

var (
	// ErrCorruptProject marks input that could not be decompressed or parsed
	// as XML. Fatal; surfaced to the caller as "file could not be read".
	ErrCorruptProject = errors.New("project file could not be read")

	// ErrUnsupportedFormat marks well-formed XML whose root structure is not
	// a Premiere project document. Fatal.
	ErrUnsupportedFormat = errors.New("unsupported project format")

	// ErrDanglingReference marks an object identifier with no matching node.
	// Recoverable: the affected item is skipped and a warning is collected.
	ErrDanglingReference = errors.New("dangling object reference")

	// ErrSequenceNotFound marks a request for a sequence name or id that the
	// project does not contain.
	ErrSequenceNotFound = errors.New("sequence not found")
)
