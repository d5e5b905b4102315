package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"fbs/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

var awsConfig *aws.Config
var sqsClient *sqs.Client
var s3Client *s3.Client

func awsGetConfig() *aws.Config {
	if awsConfig != nil {
		return awsConfig
	}
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil
	}
	awsConfig = &cfg
	return awsConfig
}

func AWSGetSQSClient() *sqs.Client {
	if sqsClient != nil {
		return sqsClient
	}
	cfg := awsGetConfig()
	if cfg == nil {
		return nil
	}
	sqsClient = sqs.NewFromConfig(*cfg)
	return sqsClient
}

func AWSGetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg := awsGetConfig()
	if cfg == nil {
		return nil
	}
	s3Client = s3.NewFromConfig(*cfg)
	return s3Client
}

// QueueName applies the QUEUE_PREFIX namespace so staging and production
// workers never drain each other's queues.
func QueueName(queue string) string {
	prefix := os.Getenv("QUEUE_PREFIX")
	if prefix == "" {
		return queue
	}
	return prefix + "-" + queue
}

func SQSProduceMessage(queue string, body string) error {
	client := AWSGetSQSClient()
	qurl, err := client.GetQueueUrl(context.TODO(), &sqs.GetQueueUrlInput{
		QueueName: aws.String(QueueName(queue)),
	})
	if err != nil {
		log.Printf("Failed to retrieve queue URL for %s: %s\n", queue, err.Error())
		return err
	}
	_, err = client.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    qurl.QueueUrl,
		MessageBody: aws.String(body),
	})
	if err != nil {
		log.Printf("Failed to send message to %s: %s\n", queue, err.Error())
		return err
	}
	return nil
}

func SQSProduceJSON(queue string, payload types.JSONB) error {
	body, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	return SQSProduceMessage(queue, string(body))
}

func SQSDeleteMessage(client *sqs.Client, queueUrl *string, m *sqstypes.Message) {
	_, err := client.DeleteMessage(context.Background(), &sqs.DeleteMessageInput{
		QueueUrl:      queueUrl,
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		log.Printf("[SQS] Error deleting message %s: %s\n", *m.MessageId, err.Error())
	}
}
