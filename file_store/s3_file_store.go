package file_store

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"

	"github.com/mpedroso/acontece/utils"
	Logger "github.com/mpedroso/acontece/utils/log"
)

const awsRegion = "sa-east-1"

type S3FileStore struct {
	bucket       string
	publicPrefix string
	uploader     *s3manager.Uploader
	svc          *s3.S3
}

// NewS3FileStore builds a store over one bucket. publicPrefix is the url
// prefix (CDN or direct bucket endpoint) objects are served from, with a
// trailing slash.
func NewS3FileStore(bucket, publicPrefix string) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(awsRegion),
	})
	if err != nil {
		return nil, err
	}

	return &S3FileStore{
		bucket:       bucket,
		publicPrefix: publicPrefix,
		uploader:     s3manager.NewUploader(sess),
		svc:          s3.New(sess),
	}, nil
}

// keyFromUrl derives a stable content key from the source url: md5 of the
// url plus the original extension, so the same remote image is stored once.
func keyFromUrl(url, fileName string) (string, error) {
	key, err := utils.TextToMd5Hash(url)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New("generated empty storage key")
	}

	ext := path.Ext(fileName)
	if ext == "" {
		ext = path.Ext(strings.SplitN(url, "?", 2)[0])
	}
	return key + ext, nil
}

// FetchAndStore downloads url and uploads it to the bucket. If the key is
// already present the existing object is kept.
func (s *S3FileStore) FetchAndStore(url, fileName string) (key string, err error) {
	response, err := http.Get(url)
	if err != nil {
		Logger.Log.Warn("fail to download file from url:", url, "err:", err)
		return "", err
	}
	defer response.Body.Close()

	key, err = keyFromUrl(url, fileName)
	if err != nil {
		return "", err
	}

	if !s.isKeyExisted(key) {
		_, err = s.uploader.Upload(&s3manager.UploadInput{
			ACL:    aws.String("public-read"),
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   response.Body,
		})
	}
	return key, err
}

func (s *S3FileStore) Put(key string, contentType string, body io.Reader) error {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		ACL:         aws.String("public-read"),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	return err
}

func (s *S3FileStore) isKeyExisted(key string) bool {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	return s.publicPrefix + key
}

func (s *S3FileStore) PublicUrlPrefix() string {
	return s.publicPrefix
}

func (s *S3FileStore) CleanUp() {
	// nothing to clean up for s3
}
