package boot

import (
	"context"
	"hrc/src/common"
	"hrc/src/config"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/utils"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(models.All()...)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the background jobs and starts the scheduler. Locks
// that lapsed while the process was down are expired right away.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if n, err := common.ExpireStaleLocks(time.Now()); err != nil {
		log.Printf("[Sweeper] Error expiring stale locks on boot: %s\n", err.Error())
	} else if n > 0 {
		log.Printf("[Sweeper] Expired %d stale booking(s) on boot\n", n)
	}
	if err := common.StartSweeper(); err != nil {
		log.Printf("Error starting sweeper: %s\n", err.Error())
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}

// InitConsumers starts the queue workers. They stop when ctx is cancelled.
func InitConsumers(ctx context.Context) {
	if config.GetAPIEnv() == "local" {
		return
	}
	common.EmailsToSendConsumer(ctx)
}

// InitAssets makes sure the local QR directory exists when images are not
// kept on S3.
func InitAssets() {
	if err := lib.EnsureDir(utils.AssetsDir()); err != nil {
		log.Printf("Could not create assets directory: %s\n", err.Error())
	}
}
