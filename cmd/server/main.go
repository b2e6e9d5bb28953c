package main

import (
	"flag"

	"github.com/mpedroso/acontece/app_setting"
	"github.com/mpedroso/acontece/audit"
	"github.com/mpedroso/acontece/collector"
	"github.com/mpedroso/acontece/collector/clients"
	"github.com/mpedroso/acontece/collector/handler"
	"github.com/mpedroso/acontece/file_store"
	"github.com/mpedroso/acontece/server"
	"github.com/mpedroso/acontece/utils"
	"github.com/mpedroso/acontece/utils/dotenv"
	. "github.com/mpedroso/acontece/utils/flag"
	. "github.com/mpedroso/acontece/utils/log"
)

var appSettingPath = flag.String("app_setting", "", "path to the app setting yaml, defaults apply when empty")

func init() {
	Log.Info("api server initialized")
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

	var store file_store.FileStore
	if utils.IsProdEnv() {
		store, err = file_store.NewS3FileStore(setting.STORAGE_BUCKET, setting.STORAGE_PUBLIC_PREFIX)
		if err != nil {
			Log.Fatal("fail to initialize s3 store: ", err)
		}
	} else {
		store, err = file_store.NewLocalFileStore(setting.STORAGE_BUCKET)
		if err != nil {
			Log.Fatal("fail to initialize local store: ", err)
		}
	}

	// The manual admin triggers run the same pipeline and audit as the
	// dedicated binaries.
	scraper, err := clients.NewScrapeClientFromEnv()
	if err != nil {
		Log.Fatal("fail to initialize scrape client: ", err)
	}

	s := &server.Server{
		DB:      db,
		Setting: setting,
		Cache:   utils.GetRedisClient(),
		Store:   store,
		Ingest: &handler.IngestHandler{
			DB:      db,
			Scraper: scraper,
			Feeds:   collector.NewRssCollector(),
			Store:   store,
		},
		Auditor: &audit.PostPublishAuditor{
			DB:                  db,
			Prober:              audit.NewHttpImageProber(),
			StoragePublicPrefix: setting.STORAGE_PUBLIC_PREFIX,
			MinImageBytes:       setting.AUDIT_MIN_IMAGE_BYTES,
			MinTitleLength:      setting.AUDIT_MIN_TITLE_LENGTH,
		},
	}

	Log.Info("api server starts up on ", setting.SERVER_ADDR)
	if err := s.Router().Run(setting.SERVER_ADDR); err != nil {
		Log.Fatal("api server exited: ", err)
	}
}
