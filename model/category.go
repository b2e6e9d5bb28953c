package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Category is an editorial section tag

Id: primary key
Name: display name, for example "Esportes"
Slug: url-safe identifier, for example "esportes"
Keywords: JSONB list of strings, consumed only by the classifier
*/

type Category struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string
	Slug      string `gorm:"uniqueIndex"`
	Keywords  datatypes.JSON
}
