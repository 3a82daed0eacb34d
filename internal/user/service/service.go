package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AmineOzil/user-registration/internal/audit"
	"github.com/AmineOzil/user-registration/internal/user/metrics"
	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/internal/user/validation"
	dErrors "github.com/AmineOzil/user-registration/pkg/domain-errors"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

const tracerName = "github.com/AmineOzil/user-registration/internal/user/service"

// UserStore persists users keyed by username. Create assigns the ID and must
// return sentinel.ErrAlreadyUsed when the username is taken at write time.
// FindByUsername returns sentinel.ErrNotFound when absent.
type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service runs the registration workflow and profile lookups.
type Service struct {
	users          UserStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service.
func New(users UserStore, opts ...Option) *Service {
	s := &Service{users: users}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Register validates req, enforces username uniqueness and persists a new
// user with a single write. No write happens on any failure path.
func (s *Service) Register(ctx context.Context, req *models.RegistrationRequest) (resp *models.UserResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "user.Register")
	start := time.Now()
	username := ""
	if req != nil {
		username = req.Username
		span.SetAttributes(attribute.String("user.username", username))
	}
	defer func() {
		endSpan(span, err)
		s.observeRegister(start, err)
		s.logServiceCall(ctx, "Register", start, err, "username", username)
	}()

	if s.logger != nil && req != nil && !requestcontext.InHTTPCall(ctx) {
		s.logger.DebugContext(ctx, "ServiceCall Register", "request", *req)
	}

	now := requestcontext.Now(ctx)
	if err := validation.Validate(req, models.DateOf(now)); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check username availability")
	}
	if exists {
		return nil, usernameTaken(req.Username)
	}

	user, err := models.NewUser(*req, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build user")
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, usernameTaken(req.Username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logAudit(ctx, audit.EventUserRegistered, user)
	return models.NewUserResponse(user), nil
}

// GetUserDetails returns the projection of the user registered as username.
func (s *Service) GetUserDetails(ctx context.Context, username string) (resp *models.UserResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "user.GetUserDetails",
		trace.WithAttributes(attribute.String("user.username", username)))
	start := time.Now()
	defer func() {
		endSpan(span, err)
		s.observeLookup(start)
		s.logServiceCall(ctx, "GetUserDetails", start, err, "username", username)
	}()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NewWithIdentifier(dErrors.CodeNotFound,
				fmt.Sprintf("User with username '%s' not found", username), username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return models.NewUserResponse(user), nil
}

func usernameTaken(username string) error {
	return dErrors.NewWithIdentifier(dErrors.CodeConflict,
		fmt.Sprintf("User with username '%s' already exists", username), username)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

// logServiceCall emits the ServiceCall line for callers outside HTTP; the API
// middleware already logs requests it serves.
func (s *Service) logServiceCall(ctx context.Context, op string, start time.Time, err error, attributes ...any) {
	if s.logger == nil || requestcontext.InHTTPCall(ctx) {
		return
	}
	args := append(attributes,
		"operation", op,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if err != nil {
		args = append(args, "error_code", string(dErrors.CodeOf(err)), "error", err)
		s.logger.WarnContext(ctx, "ServiceCall FAIL", args...)
		return
	}
	s.logger.InfoContext(ctx, "ServiceCall SUCCESS", args...)
}

func (s *Service) logAudit(ctx context.Context, event audit.EventName, user *models.User) {
	requestID := requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event),
			"user_id", user.ID,
			"username", user.Username,
			"request_id", requestID,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	// The user is already stored; a failed emit must not fail the request.
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    event,
		Subject:   user.Username,
		UserID:    user.ID,
		RequestID: requestID,
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"event", string(event),
			"request_id", requestID,
			"error", err,
		)
	}
}

func (s *Service) observeRegister(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRegister(start)
	if err != nil {
		s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
		return
	}
	s.metrics.IncrementUsersRegistered()
}

func (s *Service) observeLookup(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(start)
	}
}
