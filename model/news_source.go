package model

import (
	"time"
)

/*

NewsSource is a configured origin the ingestion pipeline scrapes

Id: primary key
Name: display name of the origin site
BaseUrl: page handed to the scraping service
RssUrl: optional feed address, used by the RSS collector when set
TrustScore: admin-assigned 0-10 reliability rating, an input to scoring
Active: the fetcher reads only active sources
*/

type NewsSource struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Name       string
	BaseUrl    string
	RssUrl     string
	TrustScore float64
	Active     bool
}
