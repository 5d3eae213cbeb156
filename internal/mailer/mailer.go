package mailer

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

const (
	mailgunHost = "smtp.mailgun.org"
	mailgunPort = 587
	mailgunUser = "api"
)

// Sender abstracts message delivery; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer renders and sends the purchase notification mails. It is an
// explicitly constructed dependency with its own dialer, not a package
// global.
type Mailer struct {
	sender Sender
	from   string
	admin  string
	logger *zap.Logger
}

// New builds a Mailer over Mailgun's SMTP relay.
func New(apiKey, from, adminEmail string, logger *zap.Logger) *Mailer {
	return &Mailer{
		sender: gomail.NewDialer(mailgunHost, mailgunPort, mailgunUser, apiKey),
		from:   from,
		admin:  adminEmail,
		logger: logger,
	}
}

// NotifyCustomer sends the purchase confirmation to the buyer.
func (m *Mailer) NotifyCustomer(email string, pet *domain.Pet) error {
	body, err := renderTemplate(customerTemplate, templateContext(pet, email))
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your New Pet: %s!", pet.Name)
	return m.send(email, subject, body)
}

// NotifyAdmin tells the shop owner a pet sold.
func (m *Mailer) NotifyAdmin(pet *domain.Pet, customerEmail string) error {
	body, err := renderTemplate(adminTemplate, templateContext(pet, customerEmail))
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New Pet Purchase: %s", pet.Name)
	return m.send(m.admin, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.Info("notification sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type mailContext struct {
	PetName       string
	Species       string
	Amount        string
	PurchaseDate  string
	CustomerEmail string
}

func templateContext(pet *domain.Pet, customerEmail string) mailContext {
	ctx := mailContext{
		PetName:       pet.Name,
		Species:       pet.Species,
		Amount:        fmt.Sprintf("%.2f", pet.Price),
		CustomerEmail: customerEmail,
	}
	if pet.PurchasedAt != nil {
		ctx.PurchaseDate = pet.PurchasedAt.Format("2006-01-02")
	}
	return ctx
}

func renderTemplate(tmpl templateRef, ctx mailContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.name, err)
	}
	return buf.String(), nil
}
