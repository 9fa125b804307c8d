package service

import "errors"

var (
	// ErrDocumentNotFound is returned when a document id does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVersionNotFound is returned when a version id does not exist.
	ErrVersionNotFound = errors.New("version not found")
	// ErrImageNotFound is returned when an image id does not exist.
	ErrImageNotFound = errors.New("image not found")
)
