package notifications

import (
	"context"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/notification"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

// DefaultLimit caps how many notifications a listing returns.
const DefaultLimit = 50

// Service writes and lists in-app notifications. Delivery failures are logged
// and swallowed so a notification never fails the operation that produced it.
type Service struct {
	accounts storage.AccountStore
	store    storage.NotificationStore
	log      *logger.Logger
}

// New constructs a notification service.
func New(accounts storage.AccountStore, store storage.NotificationStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("notifications")
	}
	return &Service{accounts: accounts, store: store, log: log}
}

// Notify records a notification for one account.
func (s *Service) Notify(ctx context.Context, accountID, typ, title, message string, data map[string]string) {
	_, err := s.store.CreateNotification(ctx, notification.Notification{
		AccountID: accountID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
	})
	if err != nil {
		s.log.WithError(err).WithField("account_id", accountID).Warn("notification dropped")
	}
}

// NotifyAdmins records the same notification for every admin account.
func (s *Service) NotifyAdmins(ctx context.Context, typ, title, message string, data map[string]string) {
	admins, err := s.accounts.ListAccounts(ctx, account.RoleAdmin)
	if err != nil {
		s.log.WithError(err).Warn("admin notification dropped")
		return
	}
	for _, admin := range admins {
		s.Notify(ctx, admin.ID, typ, title, message, data)
	}
}

// List returns the account's notifications, newest first, capped at
// DefaultLimit.
func (s *Service) List(ctx context.Context, accountID string) ([]notification.Notification, error) {
	return s.store.ListNotifications(ctx, accountID, DefaultLimit)
}
