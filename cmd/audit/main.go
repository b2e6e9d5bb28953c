package main

import (
	"context"
	"flag"

	"github.com/mpedroso/acontece/app_setting"
	"github.com/mpedroso/acontece/audit"
	"github.com/mpedroso/acontece/utils"
	"github.com/mpedroso/acontece/utils/dotenv"
	. "github.com/mpedroso/acontece/utils/flag"
	. "github.com/mpedroso/acontece/utils/log"
)

var appSettingPath = flag.String("app_setting", "", "path to the app setting yaml, defaults apply when empty")

func init() {
	Log.Info("audit worker initialized")
}

func main() {
	ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	setting := app_setting.DefaultAppSetting()
	if *appSettingPath != "" {
		setting = app_setting.ParseAppSetting(*appSettingPath)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	auditor := &audit.PostPublishAuditor{
		DB:                  db,
		Prober:              audit.NewHttpImageProber(),
		StoragePublicPrefix: setting.STORAGE_PUBLIC_PREFIX,
		MinImageBytes:       setting.AUDIT_MIN_IMAGE_BYTES,
		MinTitleLength:      setting.AUDIT_MIN_TITLE_LENGTH,
	}

	report, err := auditor.Run(context.Background())
	if err != nil {
		Log.Fatal("audit run failed: ", err)
	}
	Log.Info("audit run finished, audited ", report.Audited, ", demoted ", report.Demoted)
}
