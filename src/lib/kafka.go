package lib

import (
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func GetKafkaProducerConfig() kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         "fbsProducer",
		"acks":              "all",
	}
}

func GetKafkaConsumerConfig(groupId string) kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
	}
}

func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	config := kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	}
	producer, err := kafka.NewProducer(&config)
	if err != nil {
		log.Printf("Failed to create producer: %s\n", err.Error())
		return err
	}
	defer producer.Close()
	body, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	deliveryChan := make(chan kafka.Event, 1)
	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          body,
	}, deliveryChan)
	if err != nil {
		log.Printf("Failed to produce message: %s\n", err.Error())
		return err
	}
	e := <-deliveryChan
	if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
		log.Printf("Delivery failed: %v\n", m.TopicPartition.Error)
		return m.TopicPartition.Error
	}
	return nil
}

// KafkaConsumeTopic polls one topic and hands each message body to the
// handler. Used only in local environments where kafka mirrors the SQS
// queues.
func KafkaConsumeTopic(groupId string, topic string, handler func(body string)) {
	config := GetKafkaConsumerConfig(groupId)
	consumer, err := kafka.NewConsumer(&config)
	if err != nil {
		log.Printf("Error creating consumer: %s\n", err.Error())
		return
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		log.Printf("Error subscribing to %s: %s\n", topic, err.Error())
		return
	}
	go func() {
		log.Printf("[kafka] %s: waiting for messages...\n", topic)
		run := true
		for run {
			ev := consumer.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				handler(string(e.Value))
			case kafka.Error:
				log.Printf("[kafka] Error on %s: %v\n", topic, e)
				run = false
			default:
			}
		}
		consumer.Close()
	}()
}
