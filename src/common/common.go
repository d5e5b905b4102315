package common

import (
	"encoding/json"
	"fbs/src/lib"
	awslib "fbs/src/lib/aws"
	"fbs/src/types"
	"log"
	"os"

	"github.com/tidwall/gjson"
)

// SQSConsumers wires up every queue worker. Local environments attach the
// same handlers to the kafka mirror topics instead.
func SQSConsumers() {
	apiEnv := os.Getenv("API_ENV")
	emailQueue := os.Getenv("EMAIL_QUEUE")

	handlers := map[string]types.Handler{
		"ExpiredHolds":     expiredHoldsHandler,
		"CampaignDispatch": campaignDispatchHandler,
		"PendingBookings":  pendingBookingsHandler,
		emailQueue:         emailHandler,
	}
	if apiEnv == "local" {
		for topic, handler := range handlers {
			lib.KafkaConsumeTopic("fbs-workers", topic, handler)
		}
		return
	}
	for queue, handler := range handlers {
		c := awslib.NewSQSConsumer(queue, handler)
		c.Listen()
	}
}

func expiredHoldsHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[ExpiredHolds]: Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(body, "id")
	if !id.Exists() {
		log.Println("[ExpiredHolds]: Missing hold id. Aborting")
		return
	}
	holdID := uint(id.Uint())
	log.Printf("[ExpiredHolds]: %d", holdID)
	ExpireHold(holdID)
}

func campaignDispatchHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[CampaignDispatch]: Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(body, "id")
	if !id.Exists() {
		log.Println("[CampaignDispatch]: Missing campaign id. Aborting")
		return
	}
	campaignID := uint(id.Uint())
	log.Printf("[CampaignDispatch]: %d", campaignID)
	if err := DispatchCampaign(campaignID); err != nil {
		log.Printf("Error dispatching campaign %d: %s\n", campaignID, err.Error())
	}
}

func pendingBookingsHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[PendingBookings]: Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(body, "id")
	if !id.Exists() {
		log.Println("[PendingBookings]: Missing booking id. Aborting")
		return
	}
	bookingID := uint(id.Uint())
	log.Printf("[PendingBookings]: %d", bookingID)
	ExpirePendingBooking(bookingID)
}

func emailHandler(body string) {
	var payload types.JSONB
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		log.Printf("Error deserializing JSON: %s\n", err.Error())
		return
	}
	input := lib.SendMailInput{
		From:     stringField(payload, "from"),
		FromName: stringField(payload, "from-name"),
		To:       stringSlice(payload, "to"),
		Cc:       stringSlice(payload, "cc"),
		Bcc:      stringSlice(payload, "bcc"),
		ReplyTo:  stringField(payload, "reply-to"),
		Subject:  stringField(payload, "subject"),
		Body:     stringField(payload, "body"),
	}
	if html, ok := payload["html"].(bool); ok {
		input.Html = html
	}
	var err error
	if os.Getenv("MAIL_DRIVER") == "ses" {
		err = awslib.SESSendMail(&input)
	} else {
		err = lib.SendMail(&input)
	}
	if err != nil {
		log.Printf("Error sending email to %v: %s\n", input.To, err.Error())
	}
}

func stringField(payload types.JSONB, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func stringSlice(payload types.JSONB, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
