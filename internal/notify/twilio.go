package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppPrefix marks recipients that receive WhatsApp instead of SMS.
const WhatsAppPrefix = "whatsapp:"

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	From         string
	WhatsAppFrom string
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier sends SMS and WhatsApp messages through the Twilio Messages API.
type TwilioNotifier struct {
	api          messageCreator
	from         string
	whatsAppFrom string
}

func NewTwilioNotifier(cfg TwilioConfig) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioNotifier(client.Api, cfg)
}

func newTwilioNotifier(api messageCreator, cfg TwilioConfig) *TwilioNotifier {
	whatsAppFrom := cfg.WhatsAppFrom
	if whatsAppFrom == "" {
		whatsAppFrom = cfg.From
	}
	return &TwilioNotifier{
		api:          api,
		from:         cfg.From,
		whatsAppFrom: whatsAppFrom,
	}
}

func (n *TwilioNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetBody(textBody(subject, body))
	if strings.HasPrefix(recipient, WhatsAppPrefix) {
		params.SetFrom(WhatsAppPrefix + strings.TrimPrefix(n.whatsAppFrom, WhatsAppPrefix))
	} else {
		params.SetFrom(n.from)
	}

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send message to %s: %w", recipient, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("notify: message sent to %s, SID: %s", recipient, *resp.Sid)
	}
	return nil
}

// textBody folds the subject into the message, as SMS has no subject line.
func textBody(subject, body string) string {
	if subject == "" {
		return body
	}
	return subject + "\n\n" + body
}
