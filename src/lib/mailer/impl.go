package mailer

import (
	"encoding/json"
	"fmt"
	"hrc/src/lib"
	"hrc/src/types"
	"log"
	"os"
)

// EmailQueue is the SQS queue consumed by the email worker, suffixed with the
// environment outside production.
func EmailQueue() string {
	queue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	if queue == "" || apiEnv == "" || apiEnv == string(types.Production) {
		return queue
	}
	return fmt.Sprintf("%s_%s", queue, apiEnv)
}

// NewMailerMessage delivers the message directly over SMTP locally or when no
// queue is configured, and through the email queue otherwise.
func NewMailerMessage(input *lib.SendMailInput) error {
	apiEnv := os.Getenv("API_ENV")
	queue := EmailQueue()
	if apiEnv == string(types.Local) || queue == "" {
		if err := lib.SendMail(input); err != nil {
			return fmt.Errorf("error sending email: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(queue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	log.Printf("Queued email '%s' for %v\n", input.Subject, input.To)
	return nil
}
