package notification

import (
	"bytes"
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type MailjetConfig struct {
	MailjetBaseURL           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type MailjetRepository struct {
	mailjetConfig MailjetConfig
	client        *http.Client
}

func NewMailjetRepository(cfg MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		mailjetConfig: cfg,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

type payloadSendEmail struct {
	Messages []Messages `json:"Messages"`
}

type Contact struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type Messages struct {
	From     Contact   `json:"From"`
	To       []Contact `json:"To"`
	Subject  string    `json:"Subject"`
	TextPart string    `json:"TextPart"`
	HTMLPart string    `json:"HTMLPart"`
}

func (r *MailjetRepository) SendEmail(ctx context.Context, toName, toEmail, subject, textPart, htmlPart string) error {
	url := r.mailjetConfig.MailjetBaseURL + "/v3.1/send"

	payload := payloadSendEmail{
		Messages: []Messages{{
			From: Contact{
				Email: r.mailjetConfig.MailjetSenderEmail,
				Name:  r.mailjetConfig.MailjetSenderName,
			},
			To:       []Contact{{Email: toEmail, Name: toName}},
			Subject:  subject,
			TextPart: textPart,
			HTMLPart: htmlPart,
		}},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.mailjetConfig.MailjetBasicAuthUsername + ":" + r.mailjetConfig.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(res.Body)
	logger.Warn("Mailjet negative response", "status", res.StatusCode, "body", string(bodyBytes))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}

// SendOrderConfirmation mails the receipt for a freshly placed order.
func (r *MailjetRepository) SendOrderConfirmation(ctx context.Context, profile domain.Profile, order domain.Order, items []domain.OrderLineItem) error {
	if profile.Email == "" {
		return nil
	}

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	subject := fmt.Sprintf("EasyShop order #%d confirmed", order.OrderID)

	var text, html strings.Builder
	fmt.Fprintf(&text, "Thanks for your order #%d.\n", order.OrderID)
	fmt.Fprintf(&html, "<h3>Thanks for your order #%d.</h3><ul>", order.OrderID)
	for _, item := range items {
		fmt.Fprintf(&text, "- product %d x%d @ %s\n", item.ProductID, item.Quantity, item.SalesPrice.StringFixed(2))
		fmt.Fprintf(&html, "<li>product %d x%d @ %s</li>", item.ProductID, item.Quantity, item.SalesPrice.StringFixed(2))
	}
	fmt.Fprintf(&text, "Shipping to: %s", order.ShippingAddress)
	fmt.Fprintf(&html, "</ul><p>Shipping to: %s</p>", order.ShippingAddress)

	return r.SendEmail(ctx, name, profile.Email, subject, text.String(), html.String())
}
