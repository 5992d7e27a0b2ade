package common

import (
	"encoding/json"
	"log"
	"os"
	"tutorhub/src/lib"
	"tutorhub/src/types"

	"github.com/tidwall/gjson"
)

func sendQueuedEmail(spayload string) {
	from := gjson.Get(spayload, "from").String()
	fromName := gjson.Get(spayload, "from-name").String()
	subject := gjson.Get(spayload, "subject").String()
	log.Printf("from [%s] with subject: %s\n", from, subject)

	toArr := gjson.Get(spayload, "to").Array()
	to := make([]string, 0)
	for _, item := range toArr {
		to = append(to, item.String())
	}
	ccArr := gjson.Get(spayload, "cc").Array()
	cc := make([]string, 0)
	for _, item := range ccArr {
		cc = append(cc, item.String())
	}
	bccArr := gjson.Get(spayload, "bcc").Array()
	bcc := make([]string, 0)
	for _, item := range bccArr {
		bcc = append(bcc, item.String())
	}
	replyTo := gjson.Get(spayload, "reply-to").String()

	var body types.JSONB
	if err := json.Unmarshal([]byte(spayload), &body); err != nil {
		log.Printf("error deserializing json: %s\n", err.Error())
		return
	}
	go func() {
		input := &lib.SendMailInput{
			From:     from,
			FromName: fromName,
			To:       to,
			Cc:       cc,
			Bcc:      bcc,
			ReplyTo:  replyTo,
			Subject:  subject,
			Body:     gjson.Get(spayload, "body").String(),
			Html:     gjson.Get(spayload, "html").Bool(),
		}
		if err := lib.SendMail(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", to)
	}()
}

func KafkaEmailsToSendConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	sendQueuedEmail(spayload)
}

func EmailsToSendConsumer() {
	queue := os.Getenv("EMAIL_QUEUE")
	if queue == "" {
		queue = "EmailsToSend"
	}
	qname := lib.WithSuffix(queue)
	log.Printf("%s: Listening for messages...", qname)
	c := lib.NewSQSConsumer(qname, func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		sendQueuedEmail(spayload)
	})
	c.Listen()
}
