package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/models"
	"github.com/markdave123-py/dmpart/internal/services"
)

// multipartMemory is how much of a form is held in memory before spilling.
const multipartMemory = 8 << 20

// DocumentService is what the handlers need from services.DocumentService.
type DocumentService interface {
	Process(ctx context.Context, path, originalName string, report ingestion_engine.ProgressFunc) ingestion_engine.Result
	Artifact(ctx context.Context, id string) ([]byte, error)
	Summary(ctx context.Context, id string) (*models.Artifact, error)
	Runs(ctx context.Context, limit int) ([]models.Run, error)
	Run(ctx context.Context, id string) (*models.Run, error)
}

type DocumentHandler struct {
	svc DocumentService
	cfg *config.Config
	log logger.Logger
}

func NewDocumentHandler(svc DocumentService, cfg *config.Config, log logger.Logger) *DocumentHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &DocumentHandler{svc: svc, cfg: cfg, log: log}
}

type uploadResponse struct {
	ingestion_engine.Result
	SuggestedName string `json:"suggested_name,omitempty"`
}

// UploadDocument stores the multipart "file" in the upload dir, runs the
// pipeline on it and removes it again. The body is the pipeline Result.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeResult(w, ingestion_engine.Result{
				ErrorKind:    ingestion_engine.KindInvalidSource,
				ErrorMessage: fmt.Sprintf("file too large: limit is %d bytes", h.cfg.MaxUploadBytes),
			})
			return
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Removes any path components.
	cleanFilename := filepath.Base(header.Filename)
	if cleanFilename == "." || cleanFilename == string(filepath.Separator) {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	path, err := h.spool(file, cleanFilename)
	if err != nil {
		h.log.Error("spool upload", logger.String("file", cleanFilename), logger.Error(err))
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.log.Warn("remove upload", logger.String("path", path), logger.Error(err))
		}
	}()

	res := h.svc.Process(r.Context(), path, cleanFilename, nil)
	resp := uploadResponse{Result: res}
	if res.OK {
		if art, err := h.svc.Summary(r.Context(), res.CacheID); err == nil {
			resp.SuggestedName = art.Metadata.SuggestedName()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(res))
	_ = json.NewEncoder(w).Encode(resp)
}

// spool copies the upload into UPLOAD_DIR under a random name that keeps the
// extension, so format detection still works.
func (h *DocumentHandler) spool(src io.Reader, name string) (string, error) {
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(h.cfg.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// GetArtifact returns the cached artifact JSON as stored.
func (h *DocumentHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}

	raw, err := h.svc.Artifact(r.Context(), id)
	if errors.Is(err, core.ErrArtifactNotFound) {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("load artifact", logger.String("cache_id", id), logger.Error(err))
		http.Error(w, "failed to load artifact", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(raw)
}

// GetRuns lists recent runs from the ledger (?limit=N).
func (h *DocumentHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), limit)
	if errors.Is(err, services.ErrLedgerDisabled) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}

// GetRun returns one ledger entry by run id.
func (h *DocumentHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	run, err := h.svc.Run(r.Context(), id)
	if errors.Is(err, services.ErrLedgerDisabled) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.log.Error("load run", logger.String("run_id", id), logger.Error(err))
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(run)
}

func statusFor(res ingestion_engine.Result) int {
	if res.OK {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case ingestion_engine.KindInvalidSource:
		return http.StatusBadRequest
	case ingestion_engine.KindNoRegion:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, res ingestion_engine.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(res))
	_ = json.NewEncoder(w).Encode(uploadResponse{Result: res})
}
