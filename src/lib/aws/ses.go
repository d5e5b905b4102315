package aws

import (
	"context"
	"errors"
	"fbs/src/lib"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const sesCharset = "UTF-8"

func GetSESClient() *ses.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := ses.NewFromConfig(cfg)
	return svc
}

// SESSendMail delivers one message through SES. Used when MAIL_DRIVER=ses,
// otherwise delivery goes through the SMTP client.
func SESSendMail(input *lib.SendMailInput) error {
	c := GetSESClient()
	if c == nil {
		return errors.New("ses client unavailable")
	}
	body := &types.Body{}
	content := &types.Content{Charset: strptr(sesCharset), Data: &input.Body}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	out, err := c.SendEmail(context.TODO(), &ses.SendEmailInput{
		Source: &input.From,
		Destination: &types.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: strptr(sesCharset), Data: &input.Subject},
			Body:    body,
		},
	})
	if err != nil {
		return err
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
	return nil
}

func strptr(s string) *string {
	return &s
}
