package boot

import (
	"fbs/src/common"
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/models"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.Agent{},
		&models.Route{},
		&models.RouteStop{},
		&models.RouteSegment{},
		&models.Vessel{},
		&models.VesselSeat{},
		&models.Trip{},
		&models.SeatHold{},
		&models.Booking{},
		&models.BookingLeg{},
		&models.Passenger{},
		&models.Transaction{},
		&models.Modification{},
		&models.Campaign{},
		&models.JobTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	seedRoles(db)

	return db
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.ROLE_CUSTOMER},
		{Name: models.ROLE_AGENT},
		{Name: models.ROLE_STAFF},
		{Name: models.ROLE_ADMIN},
	}
	for _, role := range roles {
		if err := db.FirstOrCreate(&models.Role{}, role).Error; err != nil {
			log.Printf("Error seeding role %s: %s\n", role.Name, err.Error())
		}
	}
}

func InitBroker() {
	go RecoverQueuedJobs()
	go UpdateExpiredJobs()
	go common.SQSConsumers()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	// Hourly sweep behind the per-hold expiry jobs, for holds whose job
	// was lost before it ran.
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(SweepExpiredHolds),
	)
	if err != nil {
		log.Printf("Error scheduling hold sweep: %s\n", err.Error())
	}
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
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// RecoverQueuedJobs re-registers pending JobTask rows with the scheduler
// after a restart.
func RecoverQueuedJobs() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var jobTasks []models.JobTask
	today := time.Now()
	in1m := today.Add(1 * time.Minute)
	in3months := today.Add((24 * 30 * 3) * time.Hour)
	err = ss.
		Model(&models.JobTask{}).Select("id", "name", "topic", "payload", "runs_at").
		Where(&models.JobTask{Status: "pending", JobType: "OneTimeJobStartDateTime"}).
		Where("runs_at BETWEEN ? AND ?", in1m, in3months).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		log.Printf("Queueing: %s\n", jobTask.ID.String())
		jobDef := gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(jobTask.RunsAt))
		jt := gocron.NewTask(func(task models.JobTask) {
			if err := lib.QueueProduceMessage(task.Name, task.Topic, task.Payload); err != nil {
				log.Printf("Error producing message for recovered job %s: %s\n", task.ID.String(), err.Error())
			}
		}, jobTask)
		job, err := sched.NewJob(
			jobDef,
			jt,
			gocron.WithName(jobTask.Name),
		)
		if err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
			continue
		}
		log.Printf("Added job to scheduler: name=%s id=%s job=%s\n", jobTask.Name, jobTask.ID.String(), job.ID().String())
	}

	return nil
}

func UpdateExpiredJobs() {
	db := db.GetDb()
	err := db.
		Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&models.JobTask{}).
				Where("status", "pending").
				Where("runs_at < ?", time.Now()).
				Update("status", "expired").Error
			if err != nil {
				return err
			}
			return nil
		})
	if err != nil {
		log.Printf("Error while processing expired jobs: %s\n", err.Error())
	}
}

// SweepExpiredHolds expires every pending hold past its ValidUntil.
func SweepExpiredHolds() {
	db := db.GetDb()
	var holds []models.SeatHold
	err := db.
		Model(&models.SeatHold{}).
		Where("status = ? AND valid_until < ?", "pending", time.Now()).
		Limit(500).
		Find(&holds).
		Error
	if err != nil {
		log.Printf("Error sweeping expired holds: %s\n", err.Error())
		return
	}
	for _, hold := range holds {
		common.ExpireHold(hold.ID)
	}
}
