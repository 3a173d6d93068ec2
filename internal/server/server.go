// Package server exposes workbook exports over HTTP.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ukaji3/xlsxpack-go/internal/config"
	"github.com/ukaji3/xlsxpack-go/internal/dashboard"
	"github.com/ukaji3/xlsxpack-go/internal/source"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/book"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/emit"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
)

// Server serves export downloads.
type Server struct {
	cfg       config.Config
	db        *sql.DB
	log       *slog.Logger
	formatter *dashboard.Formatter
	opts      xlsxpack.Options
	now       func() time.Time
	router    *mux.Router
}

// New builds a Server. db may be nil when no reports are configured.
func New(cfg config.Config, db *sql.DB, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := dashboard.ParseFormatter(cfg.Locale, cfg.Timezone)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       cfg,
		db:        db,
		log:       logger,
		formatter: f,
		opts: xlsxpack.Options{
			Creator:      cfg.Creator,
			Application:  cfg.Application,
			MaxCellChars: cfg.MaxCellChars,
		},
		now:    time.Now,
		router: mux.NewRouter(),
	}

	s.router.Use(s.requestLogging)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/exports/{filename}", s.handleExport).Methods(http.MethodPost)
	s.router.HandleFunc("/dashboard/{filename}", s.handleDashboard).Methods(http.MethodPost)
	s.router.HandleFunc("/reports/{name}", s.handleReport).Methods(http.MethodGet)
	return s, nil
}

// Handler returns the routed handler wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return withCORS(s.router)
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting", "addr", srv.Addr, "reports", len(s.cfg.Reports))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.log.Warn("database ping failed", "err", err)
			status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"reports": len(s.cfg.Reports),
		"time":    s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename, ok := s.filename(w, r)
	if !ok {
		return
	}
	sections, err := source.Decode(s.body(w, r))
	if err != nil {
		s.badBody(w, err)
		return
	}
	s.writeWorkbook(w, book.FromSections(sections), filename)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filename, ok := s.filename(w, r)
	if !ok {
		return
	}
	var d dashboard.Dashboard
	if err := json.NewDecoder(s.body(w, r)).Decode(&d); err != nil {
		s.badBody(w, err)
		return
	}
	s.writeWorkbook(w, dashboard.Build(d, s.formatter), filename)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rep, ok := s.cfg.Report(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found"})
		return
	}
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "database_not_configured"})
		return
	}

	queries := make([]source.Query, len(rep.Sections))
	for i, sec := range rep.Sections {
		queries[i] = source.Query{Sheet: sec.Sheet, SQL: sec.Query}
	}
	sections, err := source.QuerySections(r.Context(), s.db, queries)
	if err != nil {
		s.log.Error("report query failed", "report", name, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "query_failed"})
		return
	}
	s.writeWorkbook(w, book.FromSections(sections), config.ReportFilename(rep, s.now()))
}

// filename reads the {filename} route variable, appending .xlsx when absent.
func (s *Server) filename(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := emit.BaseName(mux.Vars(r)["filename"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_filename"})
		return "", false
	}
	if !strings.EqualFold(path.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name, true
}

func (s *Server) body(w http.ResponseWriter, r *http.Request) io.Reader {
	if s.cfg.Server.MaxBodyBytes <= 0 {
		return r.Body
	}
	return http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
}

func (s *Server) badBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "body_too_large"})
		return
	}
	s.log.Warn("invalid body", "err", err)
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_body"})
}

func (s *Server) writeWorkbook(w http.ResponseWriter, wb *models.Workbook, filename string) {
	err := xlsxpack.WriteArchive(wb, filename, emit.HTTPHost{W: w}, s.opts)
	var emitErr *xlsxpack.EmitError
	switch {
	case err == nil:
		s.log.Info("export written", "filename", filename, "sheets", wb.Len())
	case errors.Is(err, xlsxpack.ErrEmptyWorkbook):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "empty_workbook"})
	case errors.As(err, &emitErr):
		// Headers are already on the wire.
		s.log.Error("export write failed", "filename", filename, "err", err)
	default:
		s.log.Error("export failed", "filename", filename, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "export_failed"})
	}
}
