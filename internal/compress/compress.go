package compress

import "fmt"

// Compress encodes and decodes content blobs before they hit the store.
// The codec name is persisted per row so that rows written under one
// configuration stay readable after the configuration changes.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// FromName returns the codec that wrote a row with the given marker.
// The empty name means plain content.
func FromName(name string) (Compress, error) {
	switch name {
	case "":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "lz4":
		return NewLZ4(), nil
	case "brotli":
		return NewBrotli(), nil
	default:
		return nil, fmt.Errorf("unknown compression codec %q", name)
	}
}
