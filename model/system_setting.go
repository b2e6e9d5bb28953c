package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

SystemSetting is one row of the process-wide key-value configuration store

Key: primary key, for example "auto_publish" or "scoring_weights"
Value: JSONB payload, parsed into a typed struct per known key by the store
package

The pipeline reads settings once at the start of a run and never mutates them.
*/

type SystemSetting struct {
	Key       string `gorm:"primaryKey"`
	UpdatedAt time.Time
	Value     datatypes.JSON
}
