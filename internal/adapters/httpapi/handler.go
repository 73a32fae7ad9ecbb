package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
)

type ctxKey string

const (
	userCtxKey      ctxKey = "user"
	maxJSONBodySize        = 1 << 20
)

var errInvalidBody = errors.New("invalid json body")

// Services bundles the use cases the HTTP surface exposes.
type Services struct {
	Clients     *usecase.EntityService[domain.Client]
	Consultants *usecase.EntityService[domain.Consultant]
	CrewMembers *usecase.EntityService[domain.CrewMember]
	CrewRoles   *usecase.EntityService[domain.CrewRole]
	Projects    *usecase.EntityService[domain.Project]
	Assignments *usecase.AssignmentService
	Dashboard   *usecase.DashboardService
	Audit       *usecase.AuditService
	Auth        *usecase.AuthService

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

type Handler struct {
	svc Services
	log *zap.Logger
}

func NewHandler(svc Services, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)

	r.Get("/healthz", h.healthz)
	if h.svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.svc.Metrics)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAPIKey)

		mountDirectory(pr, h, "/v1/clients", schemaClient, h.svc.Clients)
		mountDirectory(pr, h, "/v1/consultants", schemaConsultant, h.svc.Consultants)
		mountDirectory(pr, h, "/v1/crew-members", schemaCrewMember, h.svc.CrewMembers)
		mountDirectory(pr, h, "/v1/crew-roles", schemaCrewRole, h.svc.CrewRoles)
		mountDirectory(pr, h, "/v1/projects", schemaProject, h.svc.Projects)

		pr.Post("/v1/assignments:check-conflicts", h.checkConflicts)
		pr.Get("/v1/assignments", h.listAssignments)
		pr.Post("/v1/assignments", h.createAssignment)
		pr.Get("/v1/assignments/{id}", h.getAssignment)
		pr.Put("/v1/assignments/{id}", h.updateAssignment)
		pr.Delete("/v1/assignments/{id}", h.deleteAssignment)

		pr.Get("/v1/dashboard/metrics", h.dashboardMetrics)

		pr.Get("/v1/audit-logs", h.listAuditLogs)
		pr.Get("/v1/audit-logs/{table}/{recordID}", h.recordAuditLogs)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if token == "" {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				token = strings.TrimSpace(auth[7:])
			}
		}

		user, err := h.svc.Auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthorized) {
				h.writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			h.log.Error("authenticate request", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func userFromContext(ctx context.Context) domain.UserContext {
	user, _ := ctx.Value(userCtxKey).(domain.UserContext)
	return user
}

// decodeBody reads a single JSON value, checks it against the resource schema
// and unmarshals it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, resource string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return errInvalidBody
	}
	if err := ensureEOF(decoder); err != nil {
		return errInvalidBody
	}
	if err := validateBody(resource, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.log.Error("encode json response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.log.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"error": message})
}

func (h *Handler) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ErrValidation
		schemaErr     *domain.ErrSchemaViolation
		conflictErr   *domain.ConflictError
	)
	switch {
	case errors.Is(err, errInvalidBody):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &schemaErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "request body does not match schema", "details": schemaErr.Errors})
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": validationErr.Fields})
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTable),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidPage):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		h.writeConflict(w, r, conflictErr)
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
