package common

import (
	"context"
	"hrc/src/lib"
	awslib "hrc/src/lib/aws"
	"hrc/src/lib/mailer"
	"log"

	"github.com/tidwall/gjson"
)

func stringArray(payload string, path string) []string {
	arr := gjson.Get(payload, path).Array()
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, item.String())
	}
	return out
}

// ParseEmailPayload reads a queued email. It returns nil for payloads that
// cannot be delivered.
func ParseEmailPayload(payload string) *lib.SendMailInput {
	if !gjson.Valid(payload) {
		log.Println("Received invalid json body. Aborting")
		return nil
	}
	input := &lib.SendMailInput{
		From:     gjson.Get(payload, "from").String(),
		FromName: gjson.Get(payload, "from-name").String(),
		To:       stringArray(payload, "to"),
		Bcc:      stringArray(payload, "bcc"),
		ReplyTo:  gjson.Get(payload, "reply-to").String(),
		Subject:  gjson.Get(payload, "subject").String(),
		Body:     gjson.Get(payload, "body").String(),
		Html:     gjson.Get(payload, "html").Bool(),
	}
	if len(input.To) == 0 || input.From == "" {
		log.Printf("Email '%s' has no sender or recipients. Dropping\n", input.Subject)
		return nil
	}
	return input
}

func EmailsToSendConsumer(ctx context.Context) {
	qname := mailer.EmailQueue()
	if qname == "" {
		log.Println("[SQS] EMAIL_QUEUE is not set, email consumer disabled")
		return
	}
	c := awslib.NewSQSConsumer(qname, func(payload string) {
		input := ParseEmailPayload(payload)
		if input == nil {
			return
		}
		if err := awslib.SESSendMessage(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", input.To)
	})
	c.Listen(ctx)
}
