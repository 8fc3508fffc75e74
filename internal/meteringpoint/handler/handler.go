package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/service"
	"datahub/internal/platform/metrics"
	"datahub/internal/platform/middleware"
	"datahub/internal/platform/ratelimit"
	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/platform/httputil"
	"datahub/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the metering point operations exposed over HTTP.
type Service interface {
	CreateMeteringPoint(ctx context.Context, req *models.CreateMeteringPointRequest) (*service.Result, error)
	CreateExchangeMeteringPoint(ctx context.Context, req *models.CreateExchangeMeteringPointRequest) (*service.Result, error)
	ConnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*service.Result, error)
	DisconnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*service.Result, error)
	ReconnectMeteringPoint(ctx context.Context, req *models.ConnectionRequest) (*service.Result, error)
	CloseDown(ctx context.Context, req *models.ConnectionRequest) (*service.Result, error)
	ChangeMasterData(ctx context.Context, req *models.ChangeMasterDataRequest) (*service.Result, error)
	ChangeAddress(ctx context.Context, req *models.ChangeAddressRequest) (*service.Result, error)
	ChangeMeteringConfiguration(ctx context.Context, req *models.ChangeMeteringConfigurationRequest) (*service.Result, error)
	SetEnergySupplier(ctx context.Context, req *models.SetEnergySupplierRequest) (*service.Result, error)
	GetByGSRN(ctx context.Context, gsrn string) (*meteringpoint.MeteringPoint, error)
	ValidateMasterData(ctx context.Context, req *models.ValidateMasterDataRequest) (rules.Result, error)
}

// Handler handles the metering point endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	writerRoles  []string
	timeout      time.Duration
	limiter      ratelimit.Store
	rateLimit    int
	rateWindow   time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithWriterRoles limits mutating endpoints to the listed market roles.
func WithWriterRoles(roles ...string) Option {
	return func(h *Handler) { h.writerRoles = roles }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithRateLimit caps requests per market actor over window.
func WithRateLimit(store ratelimit.Store, limit int, window time.Duration) Option {
	return func(h *Handler) {
		h.limiter = store
		h.rateLimit = limit
		h.rateWindow = window
	}
}

// New creates a metering point Handler.
func New(
	svc Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	opts ...Option) *Handler {
	h := &Handler{
		logger:       logger,
		service:      svc,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the metering point routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	mpRouter := chi.NewRouter()
	mpRouter.Use(middleware.Recovery(h.logger))
	mpRouter.Use(middleware.RequestID)
	mpRouter.Use(middleware.RequestTime)
	mpRouter.Use(middleware.Logger(h.logger))
	mpRouter.Use(chimw.Timeout(h.timeout))
	mpRouter.Use(middleware.ContentTypeJSON)
	mpRouter.Use(middleware.Latency(h.metrics))
	mpRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	if h.limiter != nil && h.rateLimit > 0 {
		mpRouter.Use(middleware.RateLimit(h.limiter, h.rateLimit, h.rateWindow, h.logger))
	}

	mpRouter.Get("/metering-points/{gsrn}", h.handleGet)
	mpRouter.Post("/metering-points/validate", h.handleValidateMasterData)

	mpRouter.Group(func(w chi.Router) {
		if len(h.writerRoles) > 0 {
			w.Use(middleware.RequireRole(h.logger, h.writerRoles...))
		}
		w.Post("/metering-points", h.handleCreate)
		w.Post("/metering-points/exchange", h.handleCreateExchange)
		w.Post("/metering-points/{gsrn}/connect", h.handleConnection(h.service.ConnectMeteringPoint))
		w.Post("/metering-points/{gsrn}/disconnect", h.handleConnection(h.service.DisconnectMeteringPoint))
		w.Post("/metering-points/{gsrn}/reconnect", h.handleConnection(h.service.ReconnectMeteringPoint))
		w.Post("/metering-points/{gsrn}/close-down", h.handleConnection(h.service.CloseDown))
		w.Put("/metering-points/{gsrn}/master-data", h.handleChangeMasterData)
		w.Put("/metering-points/{gsrn}/address", h.handleChangeAddress)
		w.Put("/metering-points/{gsrn}/metering-configuration", h.handleChangeMeteringConfiguration)
		w.Put("/metering-points/{gsrn}/energy-supplier", h.handleSetEnergySupplier)
	})

	r.Mount("/", mpRouter)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMeteringPointRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.CreateMeteringPoint(r.Context(), &req)
	h.respond(w, r, http.StatusCreated, res, err)
}

func (h *Handler) handleCreateExchange(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExchangeMeteringPointRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.CreateExchangeMeteringPoint(r.Context(), &req)
	h.respond(w, r, http.StatusCreated, res, err)
}

// handleConnection serves the four state transitions, which share a body.
func (h *Handler) handleConnection(
	transition func(context.Context, *models.ConnectionRequest) (*service.Result, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ConnectionRequest
		if !h.decode(w, r, &req) {
			return
		}
		req.GsrnNumber = chi.URLParam(r, "gsrn")
		res, err := transition(r.Context(), &req)
		h.respond(w, r, http.StatusOK, res, err)
	}
}

func (h *Handler) handleChangeMasterData(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeMasterDataRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.GsrnNumber = chi.URLParam(r, "gsrn")
	res, err := h.service.ChangeMasterData(r.Context(), &req)
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *Handler) handleChangeAddress(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeAddressRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.GsrnNumber = chi.URLParam(r, "gsrn")
	res, err := h.service.ChangeAddress(r.Context(), &req)
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *Handler) handleChangeMeteringConfiguration(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeMeteringConfigurationRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.GsrnNumber = chi.URLParam(r, "gsrn")
	res, err := h.service.ChangeMeteringConfiguration(r.Context(), &req)
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *Handler) handleSetEnergySupplier(w http.ResponseWriter, r *http.Request) {
	var req models.SetEnergySupplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.GsrnNumber = chi.URLParam(r, "gsrn")
	res, err := h.service.SetEnergySupplier(r.Context(), &req)
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	mp, err := h.service.GetByGSRN(r.Context(), chi.URLParam(r, "gsrn"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.FromMeteringPoint(mp))
}

// handleValidateMasterData answers 200 whether or not the master data is
// valid; the body says which rules are broken.
func (h *Handler) handleValidateMasterData(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateMasterDataRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.ValidateMasterData(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.FromResult(result))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid metering point request",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, res *service.Result, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res == nil || res.MeteringPoint == nil {
		h.logger.ErrorContext(r.Context(), "service returned no metering point",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "empty result"))
		return
	}
	httputil.WriteJSON(w, status, models.FromCommand(res.MeteringPoint, res.Events))
}

// writeError renders err, adding broken business rules when it carries them.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := httputil.StatusFor(code)
	body := httputil.Describe(err)
	resp := models.ErrorResponse{Error: body.Error, ErrorDescription: body.ErrorDescription}
	if vs, ok := dErrors.DetailsOf(err).([]rules.Violation); ok && len(vs) > 0 {
		resp.Violations = models.FromViolations(vs)
	}
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		h.logger.ErrorContext(r.Context(), "metering point request failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	httputil.WriteJSON(w, status, resp)
}
