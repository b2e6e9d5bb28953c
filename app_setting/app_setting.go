package app_setting

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

// Deployment-level knobs that do not belong in the database-backed
// SystemSettings store: they describe the process, not the editorial product.
type AppSetting struct {
	// Address the API server binds to, for example ":8080".
	SERVER_ADDR string `yaml:"SERVER_ADDR"`
	// Canonical public site base url used in feeds and sitemaps, without a
	// trailing slash, for example "https://acontece.net.br".
	SITE_BASE_URL string `yaml:"SITE_BASE_URL"`
	// S3 bucket hosting uploaded images and the generated sitemap.
	STORAGE_BUCKET string `yaml:"STORAGE_BUCKET"`
	// Public url prefix under which bucket objects are served. Image urls
	// under this prefix are treated as internally hosted during audits.
	STORAGE_PUBLIC_PREFIX string `yaml:"STORAGE_PUBLIC_PREFIX"`
	// Minimum byte size for an internally hosted image to be considered a
	// real asset rather than a broken or placeholder upload.
	AUDIT_MIN_IMAGE_BYTES int64 `yaml:"AUDIT_MIN_IMAGE_BYTES"`
	// Minimum title length (in characters) enforced by the post-publish audit.
	AUDIT_MIN_TITLE_LENGTH int `yaml:"AUDIT_MIN_TITLE_LENGTH"`
	// Cache TTL in seconds for rendered feed/sitemap payloads. Zero disables
	// the redis cache entirely.
	CACHE_TTL_SECOND int64 `yaml:"CACHE_TTL_SECOND"`
}

func ParseAppSetting(path string) AppSetting {
	c := AppSetting{}
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}

// DefaultAppSetting is used by binaries when no -app_setting flag is passed.
func DefaultAppSetting() AppSetting {
	return AppSetting{
		SERVER_ADDR:            ":8080",
		SITE_BASE_URL:          "https://acontece.net.br",
		STORAGE_BUCKET:         "acontece-site-assets",
		STORAGE_PUBLIC_PREFIX:  "https://acontece-site-assets.s3.sa-east-1.amazonaws.com/",
		AUDIT_MIN_IMAGE_BYTES:  1024,
		AUDIT_MIN_TITLE_LENGTH: 10,
		CACHE_TTL_SECOND:       60,
	}
}
