/*
	This file supports optional publishing of stack mutation activity
	(appends, clears) to a kafka cluster.  If no servers are configured,
	every call is a no-op.
*/

package istack

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	"github.com/Shopify/sarama"
)

var (
	// producer
	kafkaProducer sarama.AsyncProducer

	// the kafka topic for activity logging
	kafkaActivityTopicName string
)

// KafkaMaxMessageSize is the max message size in bytes for a kafka message.
const KafkaMaxMessageSize = 980 * Kilo

// KafkaConfig describes kafka servers and an optional activity topic name.
type KafkaConfig struct {
	TopicActivity string // if supplied, will override the default activity topic
	Servers       []string
}

// KafkaActivityTopic returns the topic name used for logging stack activity.
func KafkaActivityTopic() string {
	return kafkaActivityTopicName
}

// Initialize sets up the activity topic and the async producer.
func (kc KafkaConfig) Initialize(hostID string) error {
	if len(kc.Servers) == 0 {
		return nil
	}
	if kc.TopicActivity != "" {
		kafkaActivityTopicName = kc.TopicActivity
	} else {
		kafkaActivityTopicName = "imagestack-activity-" + hostID
	}
	reg, err := regexp.Compile(`[^a-zA-Z0-9\\._\\-]+`)
	if err != nil {
		return err
	}
	kafkaActivityTopicName = reg.ReplaceAllString(kafkaActivityTopicName, "-")

	config := sarama.NewConfig()
	config.Producer.MaxMessageBytes = KafkaMaxMessageSize
	if kafkaProducer, err = sarama.NewAsyncProducer(kc.Servers, config); err != nil {
		return err
	}

	go func() {
		for err := range kafkaProducer.Errors() {
			Errorf("error on kafka send: %v\n", err)
		}
	}()
	Infof("Kafka topic for stack activity: %s\n", kafkaActivityTopicName)
	return nil
}

// KafkaShutdown makes sure that the kafka queue is flushed before stopping.
func KafkaShutdown() {
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			Errorf("Kafka producer had error on close: %v\n", err)
		} else {
			Infof("Successfully shut down kafka producer.\n")
		}
	}
}

// LogActivityToKafka publishes stack activity.
func LogActivityToKafka(activity map[string]interface{}) {
	if kafkaProducer != nil {
		go func() {
			jsonmsg, err := json.Marshal(activity)
			if err != nil {
				Errorf("unable to marshal activity for kafka logging: %v\n", err)
				return
			}
			if err := KafkaProduceMsg(jsonmsg, kafkaActivityTopicName); err != nil {
				Errorf("unable to publish activity: %v\n", err)
			}
		}()
	}
}

// KafkaProduceMsg sends a message to kafka.
func KafkaProduceMsg(value []byte, topicName string) (err error) {
	if kafkaProducer == nil {
		return nil
	}
	timeKey := sarama.StringEncoder(strconv.FormatInt(time.Now().UnixNano(), 10))
	msg := &sarama.ProducerMessage{Topic: topicName, Value: sarama.ByteEncoder(value), Key: timeKey}
	kafkaProducer.Input() <- msg
	return nil
}
