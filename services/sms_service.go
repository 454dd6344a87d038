package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender sends a text message and returns the provider's message id
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSMSService sends SMS through the Twilio REST API from the configured number
type TwilioSMSService struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSMSService creates a Twilio-backed sender from the account credentials in cfg
func NewTwilioSMSService(cfg *config.Config) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioSMSService{
		client: client,
		from:   cfg.TwilioPhoneNumber,
	}
}

// Send delivers body to the given phone number
func (s *TwilioSMSService) Send(ctx context.Context, to, body string) (string, error) {
	// the Twilio client does not take a context, so honour cancellation before the call
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
