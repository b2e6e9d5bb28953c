// Package file_store abstracts the object storage hosting uploaded images
// and the generated sitemap. Objects are write-once-or-overwrite blobs
// addressable by public url.
package file_store

import (
	"io"
)

type FileStore interface {
	// FetchAndStore downloads url and stores it under a content-derived key,
	// returning the key. Re-fetching an already stored url is a no-op.
	FetchAndStore(url string, fileName string) (key string, err error)
	// Put stores body under an explicit key, overwriting any existing object.
	Put(key string, contentType string, body io.Reader) error
	// GetUrlFromKey resolves a stored key to its public url.
	GetUrlFromKey(key string) string
	// PublicUrlPrefix is the prefix of every url this store serves. Image
	// urls under it are treated as internally hosted by the audit.
	PublicUrlPrefix() string
	CleanUp()
}
