package lib

import (
	"fbs/src/types"
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

// ScheduleQueueJob registers a one-shot job that, at runsAt, produces the
// payload to the given queue topic. Returns the schedule id used as the
// JobTask primary key.
func ScheduleQueueJob(name string, runsAt time.Time, topic string, payload types.JSONB) (*uuid.UUID, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	job, err := sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(runsAt)),
		gocron.NewTask(func() {
			if err := QueueProduceMessage(name, topic, payload); err != nil {
				log.Printf("Error producing message for job %s: %s\n", name, err.Error())
			}
		}),
		gocron.WithName(name),
	)
	if err != nil {
		log.Printf("Failed to schedule job %s: %s\n", name, err.Error())
		return nil, err
	}
	id := job.ID()
	return &id, nil
}

// CreateCronJob schedules a recurring task on the shared scheduler.
func CreateCronJob(handler any, duration time.Duration, args ...any) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	job, err := sched.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		log.Printf("Error creating job: %s\n", err.Error())
		return nil, err
	}
	id := job.ID().String()
	return &id, nil
}

// QueueProduceMessage routes a payload to the durable queue. Local
// environments mirror to kafka so the stack can run without AWS.
func QueueProduceMessage(clientId string, topic string, payload types.JSONB) error {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		if err := KafkaProduceMessage(clientId, topic, payload); err != nil {
			return err
		}
	}
	return SQSProduceJSON(topic, payload)
}
