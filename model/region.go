package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Region is a city/locality tag used for geographic classification, not a
geopolitical region in the general sense

Id: primary key
Name: display name, for example "Itajaí"
Slug: url-safe identifier, for example "itajai"
Keywords: JSONB list of strings, consumed only by the classifier
*/

type Region struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string
	Slug      string `gorm:"uniqueIndex"`
	Keywords  datatypes.JSON
}
