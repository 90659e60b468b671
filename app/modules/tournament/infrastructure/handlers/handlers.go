package tournamenthandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/parsers"
	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/prompt"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
)

const (
	defaultLimit = 20
	maxLimit     = 200
	// maxUploadBytes bounds the tournament text accepted in one request.
	maxUploadBytes = 1 << 20
	// uploadName selects the plain-text parser for request bodies.
	uploadName = "upload.tournament"
)

// TournamentHandlers serves the tournament HTTP API.
type TournamentHandlers struct {
	service   tournamentservice.Service
	logger    *slog.Logger
	tracer    trace.Tracer
	parseDate func(string) (time.Time, error)
}

// NewTournamentHandlers creates a new TournamentHandlers instance.
func NewTournamentHandlers(
	service tournamentservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *TournamentHandlers {
	dates := prompt.New(strings.NewReader(""), io.Discard)
	return &TournamentHandlers{
		service:   service,
		logger:    logger,
		tracer:    tracer,
		parseDate: dates.ParseDate,
	}
}

// UploadError is the body of a 422 response.
type UploadError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Line  int    `json:"line"`
}

// HandleHealth reports that the process is serving.
func (h *TournamentHandlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRanking returns the all-time ranking.
func (h *TournamentHandlers) HandleRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TournamentHandlers.HandleRanking")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.service.Ranking(ctx, limit)
	if err != nil {
		h.serviceError(w, r, "ranking", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleListTournaments returns the most recent tournaments.
func (h *TournamentHandlers) HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TournamentHandlers.HandleListTournaments")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := h.service.RecentTournaments(ctx, limit)
	if err != nil {
		h.serviceError(w, r, "list tournaments", err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// HandleGetTournament returns one stored tournament with its matches.
func (h *TournamentHandlers) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TournamentHandlers.HandleGetTournament")
	defer span.End()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid tournament id")
		return
	}

	stored, err := h.service.GetTournament(ctx, id)
	if err != nil {
		h.serviceError(w, r, "get tournament", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleUpload parses the request body as a tournament file and stores it.
// Metadata comes from the title, date and link query parameters.
func (h *TournamentHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TournamentHandlers.HandleUpload")
	defer span.End()

	meta, err := h.metadataFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "tournament file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	parsed, err := h.service.ParseBytes(ctx, uploadName, body, meta)
	if err != nil {
		var parseErr *parsers.ParseError
		if errors.As(err, &parseErr) {
			writeJSON(w, http.StatusUnprocessableEntity, UploadError{
				Error: parseErr.Error(),
				Kind:  parsers.KindName(parseErr),
				Line:  parseErr.Line,
			})
			return
		}
		h.serviceError(w, r, "parse upload", err)
		return
	}

	result, err := h.service.Upload(ctx, parsed)
	if err != nil {
		h.serviceError(w, r, "upload", err)
		return
	}

	h.logger.InfoContext(ctx, "Tournament uploaded over HTTP",
		slog.Int64("tournament_id", result.TournamentID),
		slog.String("title", meta.Title),
	)
	writeJSON(w, http.StatusCreated, result)
}

func (h *TournamentHandlers) metadataFromQuery(r *http.Request) (tournamenttypes.Metadata, error) {
	q := r.URL.Query()

	title := strings.TrimSpace(q.Get("title"))
	if title == "" {
		return tournamenttypes.Metadata{}, errors.New("title is required")
	}

	raw := strings.TrimSpace(q.Get("date"))
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		date, err = h.parseDate(raw)
		if err != nil {
			return tournamenttypes.Metadata{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	meta := tournamenttypes.Metadata{Title: title, Date: date}
	if link := strings.TrimSpace(q.Get("link")); link != "" {
		meta.Link = &link
	}
	return meta, nil
}

func (h *TournamentHandlers) serviceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, tournamentdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, parsers.ErrUnsupportedFile):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, tournamentservice.ErrNoRepository):
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
	default:
		h.logger.ErrorContext(r.Context(), "Tournament request failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(limit, maxLimit), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
