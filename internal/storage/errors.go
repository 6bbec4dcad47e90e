package storage

import "errors"

// ErrUnsupportedImage is returned for uploads that are not decodable images
// in an accepted format.
var ErrUnsupportedImage = errors.New("unsupported image format")
