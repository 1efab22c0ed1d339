package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parklystats/internal/config"
)

const digestSubject = "Parkly daily stats digest"

// DigestService pushes the headline metrics to the configured channels on a
// schedule. Delivery is best-effort: a failed send is logged and never
// interrupts the service.
type DigestService struct {
	Stats *StatsService
	cfg   *config.Config
}

func NewDigestService(stats *StatsService, cfg *config.Config) *DigestService {
	return &DigestService{Stats: stats, cfg: cfg}
}

// Run computes the digest and dispatches it. Registered with cron in main.
func (s *DigestService) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	body, headline, err := s.Build(ctx)
	if err != nil {
		log.Printf("digest: failed to compute metrics: %v", err)
		return
	}

	if s.cfg.DigestEmailTo != "" {
		if err := sendDigestEmail(s.cfg.DigestEmailTo, body); err != nil {
			log.Printf("digest: email delivery failed: %v", err)
		}
	}
	if s.cfg.DigestSMSTo != "" {
		if err := sendDigestSMS(s.cfg.DigestSMSTo, headline); err != nil {
			log.Printf("digest: SMS delivery failed: %v", err)
		}
	}
}

// Build renders the full digest body and the one-line headline used for SMS.
func (s *DigestService) Build(ctx context.Context) (body, headline string, err error) {
	summary, err := s.Stats.Summary(ctx)
	if err != nil {
		return "", "", err
	}
	occupancy, err := s.Stats.OccupancyRate(ctx)
	if err != nil {
		return "", "", err
	}
	projection, err := s.Stats.MonthlyProjection(ctx)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Parkly daily stats\n\n")
	fmt.Fprintf(&b, "Occupancy: %.2f%%\n", occupancy)
	fmt.Fprintf(&b, "Projected earnings this month: %.2f (%d days remaining)\n",
		projection.ProjectedEarnings, projection.DaysRemaining)
	fmt.Fprintf(&b, "Completed revenue to date: %.2f\n", summary.TotalRevenue)
	fmt.Fprintf(&b, "Reservations: %d across %d spots (avg booking %.2f)\n",
		summary.TotalReservations, summary.TotalSpots, summary.AvgBooking)
	fmt.Fprintf(&b, "Peak day: %s\n", summary.PeakDay)

	headline = fmt.Sprintf("Parkly: occupancy %.2f%%, projection %.2f, peak day %s",
		occupancy, projection.ProjectedEarnings, summary.PeakDay)
	return b.String(), headline, nil
}

func sendDigestEmail(toEmailAddress, plainTextContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY is not set. The digest email will not be sent.")
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL is not set. The digest email will not be sent.")
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Parkly"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail("", toEmailAddress)
	message := mail.NewSingleEmail(from, digestSubject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending digest email via SendGrid: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Digest email sent to %s. Status: %d", toEmailAddress, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned non-success status %d: %s", response.StatusCode, response.Body)
}

func sendDigestSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Println("WARNING: Twilio credentials (SID, token or from number) are not set. The digest SMS will not be sent.")
		return fmt.Errorf("Twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number '%s' is not in E.164 format. The SMS may fail.", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending digest SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("Digest SMS sent to %s. Message SID: %s", toNumber, *resp.Sid)
	}
	return nil
}
