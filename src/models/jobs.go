package models

import (
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobTask is the durable record behind one-shot scheduled work (hold
// expiry, campaign dispatch). Jobs are registered with the in-process
// scheduler and recovered from this table at boot.
type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name          string      `json:"-"`
	JobType       string      `json:"-"`
	RunsAt        time.Time   `json:"-"`
	HandlerParams []any       `gorm:"type:jsonb" json:"-"`
	PayloadID     string      `json:"-"`
	Payload       types.JSONB `gorm:"type:jsonb" json:"-"`
	Source        string      `json:"-"`
	SourceType    string      `json:"-"`
	Status        string      `gorm:"default:'pending'" json:"-"`
	Topic         string      `json:"-"`
}

func (self *JobTask) CreateAndEnqueueJobTask(jobTask JobTask) (string, error) {
	var jobID string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		sid, err := lib.ScheduleQueueJob(jobTask.Name, jobTask.RunsAt, jobTask.Topic, jobTask.Payload)
		if err != nil {
			log.Printf("Error creating schedule for %s: %s\n", jobTask.Name, err.Error())
			return err
		}
		jobID = sid.String()
		jobTask.ID = *sid
		jobTask.Payload["JobID"] = jobID
		if err := tx.Create(&jobTask).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("Created schedule for job %s with name %s at %s\n", jobID, jobTask.Name, jobTask.RunsAt)
	return jobID, nil
}
