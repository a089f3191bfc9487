// Package document provides use cases for managing the stored documents that
// can be summarized: listing, reading, uploading, authoring and deleting.
package document

import "errors"

// Sentinel errors for document use case operations.
var (
	// ErrDocumentTooLarge indicates an upload exceeding the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrUnreadable indicates an upload whose content could not be decoded
	// according to its extension (a corrupt DOCX or PDF, for example).
	ErrUnreadable = errors.New("document content is unreadable")
)
