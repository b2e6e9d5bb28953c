package main

import (
	"context"
	"flag"

	"github.com/mpedroso/acontece/app_setting"
	"github.com/mpedroso/acontece/collector"
	"github.com/mpedroso/acontece/collector/clients"
	"github.com/mpedroso/acontece/collector/handler"
	"github.com/mpedroso/acontece/file_store"
	"github.com/mpedroso/acontece/utils"
	"github.com/mpedroso/acontece/utils/dotenv"
	. "github.com/mpedroso/acontece/utils/flag"
	. "github.com/mpedroso/acontece/utils/log"
)

var appSettingPath = flag.String("app_setting", "", "path to the app setting yaml, defaults apply when empty")

func init() {
	Log.Info("ingestion worker initialized")
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

	scraper, err := clients.NewScrapeClientFromEnv()
	if err != nil {
		Log.Fatal("fail to initialize scrape client: ", err)
	}

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

	defer store.CleanUp()

	h := &handler.IngestHandler{
		DB:      db,
		Scraper: scraper,
		Feeds:   collector.NewRssCollector(),
		Store:   store,
	}

	report, err := h.Run(context.Background())
	if err != nil {
		Log.Fatal("ingestion run failed: ", err)
	}
	Log.Info(
		"ingestion run finished, sources ", report.SourcesProcessed,
		", failed ", report.SourcesFailed,
		", inserted ", report.Inserted,
		", duplicates ", report.DuplicatesSkipped,
	)
}
