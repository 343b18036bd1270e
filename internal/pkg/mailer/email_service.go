package mailer

import (
	"fmt"
	"strings"

	"chowbot-be/internal/catalog"
	"chowbot-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOrderReceipt(toEmail string, order *entity.Order) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendOrderReceipt(toEmail string, order *entity.Order) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Receipt for Order %s", order.OrderNumber))

	var lines strings.Builder
	for _, item := range order.Items {
		lineTotal := item.Price * int64(item.Quantity)
		fmt.Fprintf(&lines, "<li>%dx %s - %s</li>", item.Quantity, item.Name, catalog.FormatPrice(lineTotal))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thank you for your order!</h2>
			<p>Order <strong>%s</strong> has been paid.</p>
			<ul>%s</ul>
			<p><strong>Total: %s</strong></p>
			<p>We are preparing your food now.</p>
		</div>
	`, order.OrderNumber, lines.String(), catalog.FormatPrice(order.TotalAmount))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", toEmail, err)
	}

	return nil
}
