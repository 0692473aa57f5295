// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/dudhkela/dudhkela_backend/models"
)

// Mailer sends the outbound notification emails. Sends are best-effort:
// callers never roll back a state change because a send failed.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// NewMailerFromEnv builds a mailer from SMTP_* environment variables
func NewMailerFromEnv() *Mailer {
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}
	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "DudhKela Support"
	}
	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		from:     os.Getenv("SMTP_FROM"),
		fromName: fromName,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	from := m.from
	if from == "" {
		from = m.username
	}
	msg.SetAddressHeader("From", from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return d.DialAndSend(msg)
}

// FormatServiceDetails renders the line items of a request as the plain
// text block used in the acceptance email
func FormatServiceDetails(items []models.LineItem) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, fmt.Sprintf(
			"%s\nQuantity: %d\nPrice: ₹%.0f per unit\nSubtotal: ₹%.0f\n----------------------------------------",
			item.Name, item.Quantity, item.Price, item.Subtotal()))
	}
	return strings.Join(blocks, "\n\n")
}

// RequestAcceptedBody composes the email sent to a customer when a
// provider accepts their request
func RequestAcceptedBody(request *models.ServiceRequest) string {
	return fmt.Sprintf(
		"Dear %s,\n\nYour service request has been accepted by %s.\n\n%s\n\nTotal Amount: ₹%.0f\n\nBest regards,\nDudhKela Support",
		request.CustomerName, request.ProviderName,
		FormatServiceDetails(request.Items), request.Total())
}

// SendRequestAcceptedEmail notifies the customer that a provider accepted
// their request, summarizing line items and the computed total
func (m *Mailer) SendRequestAcceptedEmail(request *models.ServiceRequest) error {
	subject := "Your Service Request Has Been Accepted"
	return m.send(request.CustomerEmail, subject, RequestAcceptedBody(request))
}

// ProviderApprovalBody composes the email sent to an applicant when their
// provider application is approved
func ProviderApprovalBody(app *models.ProviderApplication, approvalDate time.Time) string {
	return fmt.Sprintf(
		"Dear %s,\n\nWelcome to DudhKela as a Service Provider!\n\nServices: %s\nService Areas: %s\nApplication Date: %s\nApproval Date: %s\n\nBest regards,\nDudhKela Support",
		app.UserName,
		strings.Join(app.Services, ", "),
		strings.Join(app.AreaPincodes(), ", "),
		app.ApplicationDate.Format("02/01/2006"),
		approvalDate.Format("02/01/2006"))
}

// SendProviderApprovalEmail notifies an applicant that their application
// was approved, listing their declared services and areas
func (m *Mailer) SendProviderApprovalEmail(app *models.ProviderApplication) error {
	subject := "Welcome to DudhKela as a Service Provider!"
	return m.send(app.Email, subject, ProviderApprovalBody(app, time.Now()))
}

// PasswordResetBody composes the email carrying a password reset code
func PasswordResetBody(fullName, otp string) string {
	return fmt.Sprintf(
		"Dear %s,\n\nWe received a request to reset your password. Your reset code is: %s\n\nThe code expires in 15 minutes. If you did not request a reset, you can ignore this email.\n\nBest regards,\nDudhKela Support",
		fullName, otp)
}

// SendPasswordResetEmail delivers the password reset OTP
func (m *Mailer) SendPasswordResetEmail(to, fullName, otp string) error {
	subject := "Reset Your DudhKela Password"
	return m.send(to, subject, PasswordResetBody(fullName, otp))
}

// SendVerificationEmail delivers the signup OTP
func (m *Mailer) SendVerificationEmail(to, fullName, otp string) error {
	subject := "Verify Your DudhKela Account"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour verification code is: %s\n\nThe code expires in 30 minutes.\n\nBest regards,\nDudhKela Support",
		fullName, otp)
	return m.send(to, subject, body)
}
