package notification

import "time"

// Notification is an immutable user-facing event owned by one account.
// Notifications are created as side effects of state transitions elsewhere
// and are only ever read back by their recipient.
type Notification struct {
	ID        string            `json:"id"`
	AccountID string            `json:"account_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
