package mailer

import (
	"fbs/src/lib"
	"fbs/src/types"
	"fmt"
	"os"
)

// NewMailerMessage enqueues one outbound email on the email queue. Actual
// delivery happens in the queue consumer so campaign fan-out never blocks
// a request.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	emailBody := types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"cc":        input.Cc,
		"bcc":       input.Bcc,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if err := lib.QueueProduceMessage("emails", emailQueue, emailBody); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
