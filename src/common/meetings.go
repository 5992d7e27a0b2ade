package common

import (
	"encoding/json"
	"log"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/models"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// KafkaSessionMeetingsConsumer handles the local delayed-job path: the
// scheduler produced the job payload straight onto the topic.
func KafkaSessionMeetingsConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(spayload, "id").Uint()
	payloadId := gjson.Get(spayload, "payloadId").String()
	if id == 0 {
		log.Println("[SessionMeetings] payload has no session id. Aborting")
		return
	}
	handleSessionMeetingJob(uint(id), payloadId)
}

// SessionMeetingsConsumer handles the deployed path: EventBridge delivered
// the payload through SNS, so the job body sits inside a Message envelope.
func SessionMeetingsConsumer() {
	qname := lib.WithSuffix("SessionMeetings")
	log.Printf("%s: Listening for messages...", qname)
	c := lib.NewSQSConsumer(qname, func(body string) {
		if !gjson.Valid(body) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		var payload types.JSONB
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			log.Printf("Error deserializing JSON: %s\n", err.Error())
			return
		}
		message, ok := payload["Message"].(string)
		if !ok {
			log.Printf("[%s]: message envelope missing. Aborting", qname)
			return
		}
		var msg types.JSONB
		if err := json.Unmarshal([]byte(message), &msg); err != nil {
			log.Printf("Error deserializing message: %s\n", err.Error())
			return
		}
		id, ok := msg["id"].(float64)
		if !ok {
			log.Printf("[%s]: payload has no session id. Aborting", qname)
			return
		}
		payloadId, _ := msg["payloadId"].(string)
		handleSessionMeetingJob(uint(id), payloadId)
	})
	c.Listen()
}

func handleSessionMeetingJob(sessionId uint, payloadId string) {
	log.Printf("[SessionMeetings]: session %d\n", sessionId)
	go func() {
		if err := utils.CreateMeetingForSession(sessionId); err != nil {
			log.Printf("Error creating meeting for session %d: %s\n", sessionId, err.Error())
		}
	}()
	if payloadId == "" {
		return
	}
	go func() {
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.
				Where(&models.JobTask{PayloadID: payloadId}).
				Updates(&models.JobTask{Status: "done"}).
				Error
		})
		if err != nil {
			log.Printf("Error updating job status: %s\n", err.Error())
		}
	}()
}
