package services

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/slicelab/pizzeria-api/models"
	"github.com/slicelab/pizzeria-api/utils"
)

// Mailer abstracts the outbound relay so tests can record sends.
type Mailer interface {
	Send(to, subject string, data utils.EmailData) error
}

type smtpMailer struct{}

func (smtpMailer) Send(to, subject string, data utils.EmailData) error {
	return utils.SendEmail(to, subject, data)
}

// Notifier sends transactional email. Sends are fire-and-forget: the caller
// never waits longer than the configured timeout and failures are only
// logged, so a slow relay cannot stall order processing.
type Notifier struct {
	mailer  Mailer
	timeout time.Duration
}

func NewNotifier() *Notifier {
	return NewNotifierWithMailer(smtpMailer{})
}

func NewNotifierWithMailer(mailer Mailer) *Notifier {
	return &Notifier{mailer: mailer, timeout: 10 * time.Second}
}

func (n *Notifier) dispatch(kind, to, subject string, data utils.EmailData) {
	done := make(chan error, 1)
	go func() {
		done <- n.mailer.Send(to, subject, data)
	}()
	go func() {
		select {
		case err := <-done:
			if err != nil {
				log.Printf("Error sending %s email to %s: %v", kind, to, err)
			}
		case <-time.After(n.timeout):
			log.Printf("Sending %s email to %s timed out", kind, to)
		}
	}()
}

func frontendURL() string {
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

func (n *Notifier) EmailVerification(user models.User, token string) {
	n.dispatch("verification", user.Email, "Verify Your Email", utils.EmailData{
		Name:      user.Name,
		Message:   "Welcome to the pizzeria! Click the link below to verify your email address. This link will expire in 24 hours.",
		ActionURL: frontendURL() + "/verify-email/" + url.QueryEscape(token),
	})
}

func (n *Notifier) PasswordReset(user models.User, token string) {
	n.dispatch("password reset", user.Email, "Reset Your Password", utils.EmailData{
		Name:      user.Name,
		Message:   "You requested a password reset. Click the link below to choose a new password. This link will expire in 1 hour. If you didn't request this, please ignore this email.",
		ActionURL: frontendURL() + "/reset-password/" + url.QueryEscape(token),
	})
}

func (n *Notifier) OrderStatusUpdate(user models.User, orderID uint, status models.OrderStatus) {
	n.dispatch("order status", user.Email, "Order Status Update", utils.EmailData{
		Name:      user.Name,
		Message:   fmt.Sprintf("Your order #%d is now: %s.", orderID, status),
		ActionURL: fmt.Sprintf("%s/orders/%d", frontendURL(), orderID),
	})
}

func (n *Notifier) OrderCancelled(user models.User, orderID uint) {
	n.dispatch("cancellation", user.Email, "Order Cancelled", utils.EmailData{
		Name:    user.Name,
		Message: fmt.Sprintf("Your order #%d has been cancelled. If you have any questions, please contact our support team.", orderID),
	})
}

func (n *Notifier) LowStockAlert(item models.CatalogItem) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	n.dispatch("low stock", adminEmail, "Low Stock Alert", utils.EmailData{
		Name: "Admin",
		Message: fmt.Sprintf("%s %q is running low on stock: %d left (threshold %d). Please update the inventory as soon as possible.",
			item.Category, item.Name, item.Quantity, item.Threshold),
	})
}
