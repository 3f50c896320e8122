// Package app composes the placement portal into a running application.
//
// The layering is:
//
//	internal/app/
//	├── application.go      # Application struct and service wiring
//	├── domain/             # Domain models (pure data structures)
//	│   ├── account/        # Accounts and student/company profiles
//	│   ├── job/            # Job postings and closure records
//	│   ├── application/    # Student applications to jobs
//	│   ├── permission/     # Post-placement permission requests
//	│   ├── profileedit/    # Queued edits for locked profiles
//	│   └── notification/   # Per-account notification feed
//	├── storage/            # Store interfaces, memory and postgres backends
//	├── services/           # Business logic (accounts, jobs, applications, ...)
//	├── httpapi/            # HTTP handlers, routing and audit log
//	├── auth/               # Token issuing and password hashing
//	└── metrics/            # Prometheus collectors
//
// Business rules live in internal/app/services; handlers only decode
// requests, call a service and map its errors to HTTP status codes.
// Storage implementations never enforce domain rules beyond the
// uniqueness constraints the stores guarantee atomically.
package app
