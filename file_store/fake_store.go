package file_store

import (
	"io"
)

// FakeFileStore records Puts in memory and echoes keys back as urls.
// Test-only.
type FakeFileStore struct {
	Objects map[string][]byte
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{Objects: map[string][]byte{}}
}

func (f *FakeFileStore) FetchAndStore(url string, fileName string) (key string, err error) {
	return url + fileName, nil
}

func (f *FakeFileStore) Put(key string, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.Objects[key] = data
	return nil
}

func (f *FakeFileStore) GetUrlFromKey(key string) string {
	return f.PublicUrlPrefix() + key
}

func (f *FakeFileStore) PublicUrlPrefix() string {
	return "https://fake.store/"
}

func (f *FakeFileStore) CleanUp() {}
