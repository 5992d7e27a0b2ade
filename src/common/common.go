package common

import (
	"log"
	"os"
	"tutorhub/src/lib"
	"tutorhub/src/types"
)

// StartConsumers wires up the background message handlers for the current
// environment. Locally everything rides on kafka; deployed environments
// consume from SQS queues fed by SNS.
func StartConsumers() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		emailQueue = "EmailsToSend"
	}
	if os.Getenv("API_ENV") == string(types.Local) {
		go lib.KafkaCreateTopics(
			lib.WithSuffix("SessionMeetings"),
			lib.WithSuffix(emailQueue),
			lib.WithSuffix("WalletCredits"),
		)
		if err := lib.KafkaStartConsumer("session-meetings", KafkaSessionMeetingsConsumer, lib.WithSuffix("SessionMeetings")); err != nil {
			log.Printf("Error starting SessionMeetings consumer: %s\n", err.Error())
		}
		if err := lib.KafkaStartConsumer("emails-to-send", KafkaEmailsToSendConsumer, lib.WithSuffix(emailQueue)); err != nil {
			log.Printf("Error starting emails consumer: %s\n", err.Error())
		}
		return
	}
	go SNSSubscribes()
	go SessionMeetingsConsumer()
	go EmailsToSendConsumer()
}

func SNSSubscribes() {
	if err := lib.SNSSubscribeQueue(lib.WithSuffix("SessionMeetings"), lib.WithSuffix("SessionMeetings")); err != nil {
		log.Printf("Error subscribing SessionMeetings queue: %s\n", err.Error())
	}
}
