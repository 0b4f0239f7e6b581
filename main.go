package main

import (
	"log"

	"Blane/Constants"
	"Blane/CronJobs"
	"Blane/FiberConfig"
	"Blane/Models"

	"github.com/sirupsen/logrus"
)

func main() {
	Constants.Load()
	setupLogging()

	Models.Connect()

	syncer := CronJobs.NewPaymentSyncer(Constants.SyncSchedule, true)
	go func() {
		if err := syncer.Start(); err != nil {
			log.Printf("Failed to start payment syncer: %v", err)
		}
	}()

	FiberConfig.FiberConfig(Models.DB)
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if level, err := logrus.ParseLevel(Constants.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
