package gamification

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/raphaeldejesus03/BeFit/internal/middleware"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
	"github.com/raphaeldejesus03/BeFit/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=gamification_test

type progressRecorder interface {
	Record(ctx context.Context, uid string, kind ActivityKind) (*RecordResult, error)
	Read(ctx context.Context, uid string) (*UserProgress, error)
}

type eventDispatcher interface {
	Dispatch(uid string, kind ActivityKind, idempotencyKey string) bool
}

type eventDeduper interface {
	Claim(ctx context.Context, uid string, kind ActivityKind, idempotencyKey string) error
	Release(ctx context.Context, uid string, kind ActivityKind, idempotencyKey string)
}

type CatalogResponse struct {
	Categories   []Category        `json:"categories"`
	Achievements []BadgeDefinition `json:"achievements"`
	Total        int               `json:"total"`
}

type AcceptedResponse struct {
	UID      string       `json:"uid"`
	Kind     ActivityKind `json:"kind"`
	Accepted bool         `json:"accepted"`
}

type Handler struct {
	recorder   progressRecorder
	dispatcher eventDispatcher
	deduper    eventDeduper
}

// NewHandler wires the HTTP API. dispatcher and deduper are optional: without a dispatcher
// async requests are recorded synchronously, without a deduper idempotency keys are ignored.
func NewHandler(recorder progressRecorder, dispatcher eventDispatcher, deduper eventDeduper) *Handler {
	return &Handler{
		recorder:   recorder,
		dispatcher: dispatcher,
		deduper:    deduper,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	recordsAllowedPerMin int,
) {
	gamificationRouter := mainRouter.PathPrefix("/gamification").Subrouter()
	gamificationRouter.HandleFunc("/achievements", h.HandleCatalog).Methods("GET", "OPTIONS").Name("achievements")
	gamificationRouter.HandleFunc("/users/{uid}", h.HandleGetProgress).Methods("GET", "OPTIONS").Name("get-progress")
	gamificationRouter.HandleFunc("/users/{uid}/summary", h.HandleGetSummary).Methods("GET", "OPTIONS").Name("get-summary")

	eventsRouter := gamificationRouter.PathPrefix("/users/{uid}/events").Subrouter()
	eventsRouter.HandleFunc("/{kind}", h.HandleRecord).Methods("POST", "OPTIONS").Name("record-event")
	if rateLimiter != nil {
		eventsRouter.Use(middleware.RateLimit(rateLimiter, "record", recordsAllowedPerMin, metricsManager))
	}
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.catalog")
	defer span.End()

	category := Category(r.URL.Query().Get("category"))
	if category != "" && !knownCategory(category) {
		http.Error(w, "error, unknown category", http.StatusBadRequest)
		span.SetStatus(codes.Error, "unknown-category")
		return
	}

	achievements := CatalogByCategory(category)
	pkg.WriteJSONResponse(w, CatalogResponse{
		Categories:   Categories(),
		Achievements: achievements,
		Total:        len(achievements),
	}, http.StatusOK)
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.progress")
	defer span.End()

	uid := mux.Vars(r)["uid"]
	if uid == "" {
		http.Error(w, "error, uid empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("uid", uid))

	progress, err := h.recorder.Read(ctx, uid)
	if err != nil {
		log.Errorf("failed to read progress of [%s]: %s", uid, err)
		http.Error(w, "error, failed to read progress", http.StatusInternalServerError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read-failed")
		return
	}

	pkg.WriteJSONResponse(w, progress, http.StatusOK)
}

func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.summary")
	defer span.End()

	uid := mux.Vars(r)["uid"]
	if uid == "" {
		http.Error(w, "error, uid empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("uid", uid))

	progress, err := h.recorder.Read(ctx, uid)
	if err != nil {
		log.Errorf("failed to read progress of [%s] for summary: %s", uid, err)
		http.Error(w, "error, failed to read progress", http.StatusInternalServerError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read-failed")
		return
	}

	pkg.WriteJSONResponse(w, Summarize(progress), http.StatusOK)
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.record")
	defer span.End()

	vars := mux.Vars(r)
	uid := vars["uid"]
	if uid == "" {
		http.Error(w, "error, uid empty", http.StatusBadRequest)
		return
	}
	kind, err := ParseActivityKind(vars["kind"])
	if err != nil {
		http.Error(w, "error, unknown activity kind", http.StatusBadRequest)
		span.SetStatus(codes.Error, "invalid-kind")
		return
	}
	span.SetAttributes(
		attribute.String("uid", uid),
		attribute.String("kind", string(kind)),
	)

	idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
	if h.deduper == nil {
		idempotencyKey = ""
	}
	if idempotencyKey != "" {
		if err := h.deduper.Claim(ctx, uid, kind, idempotencyKey); errors.Is(err, ErrDuplicateEvent) {
			http.Error(w, "error, event already recorded", http.StatusConflict)
			span.SetStatus(codes.Error, "duplicate-event")
			return
		}
	}
	release := func() {
		if idempotencyKey != "" {
			h.deduper.Release(ctx, uid, kind, idempotencyKey)
		}
	}

	if pkg.QueryBool(r, "async", false) && h.dispatcher != nil {
		// a failed background record releases the key itself
		if !h.dispatcher.Dispatch(uid, kind, idempotencyKey) {
			release()
			http.Error(w, "error, too many pending events", http.StatusServiceUnavailable)
			span.SetStatus(codes.Error, "dispatch-dropped")
			return
		}
		pkg.WriteJSONResponse(w, AcceptedResponse{
			UID:      uid,
			Kind:     kind,
			Accepted: true,
		}, http.StatusAccepted)
		return
	}

	res, err := h.recorder.Record(ctx, uid, kind)
	if err != nil {
		release()
		span.RecordError(err)
		span.SetStatus(codes.Error, "record-failed")
		if errors.Is(err, ErrInvalidKind) || errors.Is(err, ErrEmptyUID) {
			http.Error(w, "error, invalid event", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to record %s for [%s]: %s", kind, uid, err)
		http.Error(w, "error, failed to record event", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, res, http.StatusOK)
}

func knownCategory(c Category) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}
