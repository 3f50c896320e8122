package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	app "github.com/VenusCh001/Placement-support-system/internal/app"
	"github.com/VenusCh001/Placement-support-system/internal/app/auth"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
	acctsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/accounts"
	appsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/applications"
	jobsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/jobs"
	permsvc "github.com/VenusCh001/Placement-support-system/internal/app/services/permissions"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/internal/filestore"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

// maxResumeSize caps resume uploads at 10 MiB.
const maxResumeSize = 10 << 20

// Config carries the handler's non-service dependencies.
type Config struct {
	Auth      *auth.Manager
	Resumes   *filestore.Store
	AuditPath string
	AuditMax  int
	Log       *logger.Logger
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app     *app.Application
	tokens  *auth.Manager
	resumes *filestore.Store
	audit   *auditLog
	log     *logger.Logger
}

// NewHandler returns a router exposing the portal REST API.
func NewHandler(application *app.Application, cfg Config) http.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	sink, err := newFileAuditSink(cfg.AuditPath)
	if err != nil {
		log.WithError(err).Warn("audit sink disabled")
	}
	h := &handler{
		app:     application,
		tokens:  cfg.Auth,
		resumes: cfg.Resumes,
		audit:   newAuditLog(cfg.AuditMax, sink),
		log:     log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	student := func(fn http.HandlerFunc) http.Handler { return h.protect(fn, account.RoleStudent) }
	company := func(fn http.HandlerFunc) http.Handler { return h.protect(fn, account.RoleCompany) }
	admin := func(fn http.HandlerFunc) http.Handler { return h.protect(fn, account.RoleAdmin) }

	r.Handle("/students/me", student(h.studentMe)).Methods(http.MethodGet)
	r.Handle("/students/me", student(h.updateStudentMe)).Methods(http.MethodPut)
	r.Handle("/students/me/resume", student(h.uploadResume)).Methods(http.MethodPost)
	r.Handle("/students/eligible-jobs", student(h.eligibleJobs)).Methods(http.MethodGet)
	r.Handle("/students/apply/{jobID}", student(h.apply)).Methods(http.MethodPost)
	r.Handle("/students/applications", student(h.studentApplications)).Methods(http.MethodGet)
	r.Handle("/students/has-offer", student(h.hasOffer)).Methods(http.MethodGet)
	r.Handle("/students/request-company-permission", student(h.requestPermission)).Methods(http.MethodPost)
	r.Handle("/students/company-permission-requests", student(h.studentPermissionRequests)).Methods(http.MethodGet)
	r.Handle("/students/profile-edit-requests", student(h.submitEditRequest)).Methods(http.MethodPost)
	r.Handle("/students/profile-edit-requests", student(h.studentEditRequests)).Methods(http.MethodGet)
	r.Handle("/notifications", h.protect(h.notifications)).Methods(http.MethodGet)

	r.Handle("/companies", h.protect(h.listCompanies, account.RoleStudent, account.RoleAdmin)).Methods(http.MethodGet)
	r.Handle("/companies/me", company(h.companyMe)).Methods(http.MethodGet)
	r.Handle("/companies/jobs", company(h.createJob)).Methods(http.MethodPost)
	r.Handle("/companies/jobs", company(h.companyJobs)).Methods(http.MethodGet)
	r.Handle("/companies/jobs/{id}", company(h.updateJob)).Methods(http.MethodPut)
	r.Handle("/companies/jobs/{id}/close", company(h.closeJob)).Methods(http.MethodPatch)
	r.Handle("/companies/jobs/{id}/applications", company(h.jobApplications)).Methods(http.MethodGet)
	r.Handle("/companies/applications/{id}/status", company(h.setApplicationStatus)).Methods(http.MethodPost)

	r.Handle("/resumes/{ref}", h.protect(h.resume, account.RoleCompany, account.RoleAdmin)).Methods(http.MethodGet)

	r.Handle("/admin/students", admin(h.adminStudents)).Methods(http.MethodGet)
	r.Handle("/admin/companies", admin(h.adminCompanies)).Methods(http.MethodGet)
	r.Handle("/admin/companies/{id}/verify", admin(h.verifyCompany)).Methods(http.MethodPost)
	r.Handle("/admin/students/{id}/lock", admin(h.lockStudent)).Methods(http.MethodPost)
	r.Handle("/admin/profile-edit-requests", admin(h.adminEditRequests)).Methods(http.MethodGet)
	r.Handle("/admin/profile-edit-requests/{id}/approve", admin(h.resolveEditRequest(true))).Methods(http.MethodPost)
	r.Handle("/admin/profile-edit-requests/{id}/reject", admin(h.resolveEditRequest(false))).Methods(http.MethodPost)
	r.Handle("/admin/company-permission-requests", admin(h.adminPermissionRequests)).Methods(http.MethodGet)
	r.Handle("/admin/company-permission-requests/{id}/approve", admin(h.resolvePermission(true))).Methods(http.MethodPost)
	r.Handle("/admin/company-permission-requests/{id}/reject", admin(h.resolvePermission(false))).Methods(http.MethodPost)
	r.Handle("/admin/closures", admin(h.closures)).Methods(http.MethodGet)
	r.Handle("/admin/analytics", admin(h.analytics)).Methods(http.MethodGet)
	r.Handle("/admin/audit", admin(h.auditEntries)).Methods(http.MethodGet)

	return r
}

// identity is the authenticated caller, placed on the request context by
// protect.
type identity struct {
	ID   string
	Role account.Role
}

type identityKey struct{}

func identityFrom(r *http.Request) identity {
	ident, _ := r.Context().Value(identityKey{}).(identity)
	return ident
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// protect verifies the bearer token, checks the caller's role against the
// allow list (empty list admits any authenticated role), and records the
// request in the audit log.
func (h *handler) protect(next http.HandlerFunc, roles ...account.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		claims, err := h.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		allowed := len(roles) == 0
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			writeError(w, http.StatusForbidden, errors.New("insufficient role"))
			return
		}

		ident := identity{ID: claims.Subject, Role: claims.Role}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(context.WithValue(r.Context(), identityKey{}, ident)))

		h.audit.add(auditEntry{
			Time:       time.Now().UTC(),
			AccountID:  ident.ID,
			Role:       string(ident.Role),
			Path:       r.URL.Path,
			Method:     r.Method,
			Status:     rec.status,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth -------------------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string                  `json:"email"`
		Password string                  `json:"password"`
		Role     string                  `json:"role"`
		Student  *account.StudentProfile `json:"student"`
		Company  *account.CompanyProfile `json:"company"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.app.Accounts.Register(r.Context(), acctsvc.RegisterParams{
		Email:    payload.Email,
		Password: payload.Password,
		Role:     account.Role(payload.Role),
		Student:  payload.Student,
		Company:  payload.Company,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.app.Accounts.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	token, err := h.tokens.Issue(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "account": acct})
}

// --- students ---------------------------------------------------------------

func (h *handler) studentMe(w http.ResponseWriter, r *http.Request) {
	acct, err := h.app.Accounts.Get(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) updateStudentMe(w http.ResponseWriter, r *http.Request) {
	var changes profileedit.ProfileChanges
	if err := decodeJSON(r.Body, &changes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, queued, err := h.app.Accounts.UpdateProfile(r.Context(), identityFrom(r).ID, changes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if queued {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"queued":  true,
			"message": "profile is locked; changes submitted for admin review",
		})
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) uploadResume(w http.ResponseWriter, r *http.Request) {
	if h.resumes == nil {
		writeError(w, http.StatusNotImplemented, errors.New("resume storage not configured"))
		return
	}
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("resume file is required"))
		return
	}
	defer file.Close()

	ref, err := h.resumes.Save(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	acct, err := h.app.Accounts.AttachResume(r.Context(), identityFrom(r).ID, ref)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resume_ref": ref, "account": acct})
}

func (h *handler) eligibleJobs(w http.ResponseWriter, r *http.Request) {
	acct, err := h.app.Accounts.Get(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	listings, err := h.app.Jobs.ListingsFor(r.Context(), acct)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *handler) apply(w http.ResponseWriter, r *http.Request) {
	created, err := h.app.Applications.Apply(r.Context(), identityFrom(r).ID, mux.Vars(r)["jobID"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewApplication(created))
}

func (h *handler) studentApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.app.Applications.ListByStudent(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewApplications(apps))
}

func (h *handler) hasOffer(w http.ResponseWriter, r *http.Request) {
	placed, err := h.app.Applications.HasOffer(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_offer": placed})
}

func (h *handler) requestPermission(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompanyID string `json:"company_id"`
		Reason    string `json:"reason"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.app.Permissions.Request(r.Context(), identityFrom(r).ID, payload.CompanyID, payload.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) studentPermissionRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.app.Permissions.List(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *handler) submitEditRequest(w http.ResponseWriter, r *http.Request) {
	var changes profileedit.ProfileChanges
	if err := decodeJSON(r.Body, &changes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.app.Accounts.SubmitEditRequest(r.Context(), identityFrom(r).ID, changes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) studentEditRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.app.Accounts.ListEditRequests(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *handler) notifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.Notifications.List(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// --- companies --------------------------------------------------------------

type companyView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Website  string    `json:"website,omitempty"`
	Verified bool      `json:"verified"`
	Jobs     []job.Job `json:"jobs"`
}

func (h *handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.app.Accounts.List(r.Context(), account.RoleCompany)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views := make([]companyView, 0, len(companies))
	for _, acct := range companies {
		if acct.Company == nil {
			continue
		}
		active, err := h.app.Jobs.List(r.Context(), acct.ID, true)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		views = append(views, companyView{
			ID:       acct.ID,
			Name:     acct.Company.Name,
			Website:  acct.Company.Website,
			Verified: acct.Company.Verified,
			Jobs:     active,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) companyMe(w http.ResponseWriter, r *http.Request) {
	acct, err := h.app.Accounts.Get(r.Context(), identityFrom(r).ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request) {
	var payload jobPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.app.Jobs.Create(r.Context(), identityFrom(r).ID, payload.toJob())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) companyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.app.Jobs.List(r.Context(), identityFrom(r).ID, false)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *handler) updateJob(w http.ResponseWriter, r *http.Request) {
	var payload jobPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	j := payload.toJob()
	j.ID = mux.Vars(r)["id"]
	updated, err := h.app.Jobs.Update(r.Context(), identityFrom(r).ID, j)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) closeJob(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status     string `json:"status"`
		Reason     string `json:"reason"`
		HiredCount int    `json:"hired_count"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	closed, err := h.app.Jobs.Close(r.Context(), identityFrom(r).ID, mux.Vars(r)["id"], jobsvc.CloseParams{
		Status:     payload.Status,
		Reason:     payload.Reason,
		HiredCount: payload.HiredCount,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

func (h *handler) jobApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.app.Applications.ListByJob(r.Context(), identityFrom(r).ID, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewApplications(apps))
}

func (h *handler) setApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.app.Applications.SetStatus(r.Context(), identityFrom(r).ID,
		mux.Vars(r)["id"], application.Status(payload.Status))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewApplication(updated))
}

func (h *handler) resume(w http.ResponseWriter, r *http.Request) {
	if h.resumes == nil {
		writeError(w, http.StatusNotImplemented, errors.New("resume storage not configured"))
		return
	}
	rc, err := h.resumes.Open(mux.Vars(r)["ref"])
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}

// --- admin ------------------------------------------------------------------

func (h *handler) adminStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.app.Accounts.List(r.Context(), account.RoleStudent)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *handler) adminCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.app.Accounts.List(r.Context(), account.RoleCompany)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *handler) verifyCompany(w http.ResponseWriter, r *http.Request) {
	acct, err := h.app.Accounts.VerifyCompany(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) lockStudent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Locked bool   `json:"locked"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.app.Accounts.SetLock(r.Context(), identityFrom(r).ID, mux.Vars(r)["id"], payload.Locked, payload.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) adminEditRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.app.Accounts.ListEditRequests(r.Context(), r.URL.Query().Get("student_id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *handler) resolveEditRequest(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Comments string `json:"comments"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resolved, err := h.app.Accounts.ResolveEditRequest(r.Context(), mux.Vars(r)["id"], identityFrom(r).ID, approve, payload.Comments)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}

func (h *handler) adminPermissionRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.app.Permissions.List(r.Context(), r.URL.Query().Get("student_id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *handler) resolvePermission(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Note string `json:"note"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resolved, err := h.app.Permissions.Resolve(r.Context(), mux.Vars(r)["id"], identityFrom(r).ID, approve, payload.Note)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}

func (h *handler) closures(w http.ResponseWriter, r *http.Request) {
	records, err := h.app.Jobs.ListClosures(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	students, err := h.app.Accounts.List(ctx, account.RoleStudent)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	companies, err := h.app.Accounts.List(ctx, account.RoleCompany)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	allJobs, err := h.app.Jobs.List(ctx, "", false)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	byBranch := make(map[string]int)
	placed := 0
	for _, s := range students {
		if s.Student == nil {
			continue
		}
		byBranch[s.Student.Branch]++
		offer, err := h.app.Applications.HasOffer(ctx, s.ID)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if offer {
			placed++
		}
	}
	activeJobs := 0
	for _, j := range allJobs {
		if j.IsActive {
			activeJobs++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"students":           len(students),
		"students_by_branch": byBranch,
		"companies":          len(companies),
		"jobs":               len(allJobs),
		"active_jobs":        activeJobs,
		"placed_students":    placed,
	})
}

func (h *handler) auditEntries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, h.audit.listLimit(limit))
}

// --- payloads and views -----------------------------------------------------

type jobPayload struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Compensation     string   `json:"compensation"`
	Location         string   `json:"location"`
	CGPACutoff       float64  `json:"cgpa_cutoff"`
	EligibleBranches []string `json:"eligible_branches"`
	RequiredSkills   []string `json:"required_skills"`
}

func (p jobPayload) toJob() job.Job {
	return job.Job{
		Title:            p.Title,
		Description:      p.Description,
		Compensation:     p.Compensation,
		Location:         p.Location,
		CGPACutoff:       p.CGPACutoff,
		EligibleBranches: p.EligibleBranches,
		RequiredSkills:   p.RequiredSkills,
	}
}

// applicationView reports the zero-value status as "Pending".
type applicationView struct {
	application.Application
	Status string `json:"status"`
}

func viewApplication(app application.Application) applicationView {
	return applicationView{Application: app, Status: app.Status.Display()}
}

func viewApplications(apps []application.Application) []applicationView {
	views := make([]applicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, viewApplication(app))
	}
	return views
}

// --- helpers ----------------------------------------------------------------

func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, acctsvc.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, appsvc.ErrPlacedWithoutPermission),
		errors.Is(err, appsvc.ErrNotOwner),
		errors.Is(err, jobsvc.ErrNotOwner):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, acctsvc.ErrEmailTaken),
		errors.Is(err, appsvc.ErrDuplicateApplication),
		errors.Is(err, permsvc.ErrDuplicatePendingRequest),
		errors.Is(err, jobsvc.ErrJobClosed),
		errors.Is(err, acctsvc.ErrRequestDecided),
		errors.Is(err, permsvc.ErrRequestDecided),
		errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, acctsvc.ErrInvalidRequest),
		errors.Is(err, jobsvc.ErrInvalidRequest),
		errors.Is(err, appsvc.ErrInvalidRequest),
		errors.Is(err, permsvc.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
	default:
		h.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
