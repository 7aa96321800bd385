// Package jobs holds the background jobs dispatched onto the queue.
package jobs

import (
	"fmt"

	"github.com/orderdesk/backoffice/pkg/mail"
	"github.com/orderdesk/backoffice/pkg/queue"
)

// StatusEmailName is the registry key for StatusEmailJob.
const StatusEmailName = "jobs.StatusEmailJob"

// StatusEmailJob emails the customer after their order changes status.
// Dispatched by the status-changed listener; retried by the queue on
// failure.
type StatusEmailJob struct {
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`
	TrackingNo    string `json:"tracking_no"`
}

// Register wires the job type into the queue registry. Call once at boot.
func Register() {
	queue.Register(StatusEmailName, func() queue.Job { return &StatusEmailJob{} })
}

func (j *StatusEmailJob) Handle() error {
	if j.CustomerEmail == "" {
		return nil // guest checkout without email, nothing to send
	}

	subject := fmt.Sprintf("Order %s is now %s", j.OrderNumber, j.Status)

	body := fmt.Sprintf("<p>Hi %s,</p><p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>",
		j.CustomerName, j.OrderNumber, j.Status)
	if j.Status == "shipped" && j.TrackingNo != "" {
		body += fmt.Sprintf("<p>Tracking number: %s</p>", j.TrackingNo)
	}

	return mail.To(j.CustomerEmail).
		Subject(subject).
		Body(body).
		Send()
}
