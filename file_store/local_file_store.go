package file_store

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const tmpFileDirPrefix = "_tmp_file_store_"

// LocalFileStore keeps objects in a temp directory. Used for development and
// tests; "public" urls are file:// paths.
type LocalFileStore struct {
	bucket     string
	folderName string
}

func NewLocalFileStore(bucket string) (*LocalFileStore, error) {
	folderName, err := createFolder(bucket)
	if err != nil {
		return nil, err
	}
	return &LocalFileStore{bucket: bucket, folderName: folderName}, nil
}

func createFolder(bucket string) (string, error) {
	folderName := tmpFileDirPrefix + bucket
	err := os.MkdirAll(folderName, os.ModePerm)
	if err != nil && strings.Contains(err.Error(), "file exists") {
		return folderName, nil
	}
	return folderName, err
}

func (s *LocalFileStore) FetchAndStore(url, fileName string) (key string, err error) {
	response, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	key, err = keyFromUrl(url, fileName)
	if err != nil {
		return "", err
	}
	return key, s.Put(key, "", response.Body)
}

func (s *LocalFileStore) Put(key string, _ string, body io.Reader) error {
	out, err := os.Create(filepath.Join(s.folderName, key))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, body)
	return err
}

func (s *LocalFileStore) GetUrlFromKey(key string) string {
	return s.PublicUrlPrefix() + key
}

func (s *LocalFileStore) PublicUrlPrefix() string {
	abs, err := filepath.Abs(s.folderName)
	if err != nil {
		abs = s.folderName
	}
	return "file://" + abs + "/"
}

func (s *LocalFileStore) CleanUp() {
	os.RemoveAll(s.folderName)
}
