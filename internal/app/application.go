package app

import (
	"github.com/VenusCh001/Placement-support-system/internal/app/services/accounts"
	applicationsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/applications"
	jobsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/jobs"
	notificationsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	permissionsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/permissions"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage/memory"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Accounts      storage.AccountStore
	Jobs          storage.JobStore
	Applications  storage.ApplicationStore
	Permissions   storage.PermissionStore
	EditRequests  storage.EditRequestStore
	Notifications storage.NotificationStore
}

// Application ties the portal services together.
type Application struct {
	log *logger.Logger

	Accounts      *accounts.Service
	Jobs          *jobsvc.Service
	Applications  *applicationsvc.Service
	Permissions   *permissionsvc.Service
	Notifications *notificationsvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Accounts == nil {
		stores.Accounts = mem
	}
	if stores.Jobs == nil {
		stores.Jobs = mem
	}
	if stores.Applications == nil {
		stores.Applications = mem
	}
	if stores.Permissions == nil {
		stores.Permissions = mem
	}
	if stores.EditRequests == nil {
		stores.EditRequests = mem
	}
	if stores.Notifications == nil {
		stores.Notifications = mem
	}

	notifier := notificationsvc.New(stores.Accounts, stores.Notifications, log)
	acctService := accounts.New(stores.Accounts, stores.EditRequests, notifier, log)
	jobService := jobsvc.New(stores.Jobs, stores.Applications, notifier, log)
	appService := applicationsvc.New(stores.Applications, stores.Jobs, stores.Accounts, stores.Permissions, notifier, log)
	permService := permissionsvc.New(stores.Permissions, stores.Accounts, notifier, log)

	return &Application{
		log:           log,
		Accounts:      acctService,
		Jobs:          jobService,
		Applications:  appService,
		Permissions:   permService,
		Notifications: notifier,
	}
}
