package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipsheet/clipsheet-agent/internal/export"
	"github.com/clipsheet/clipsheet-agent/internal/project"
	"github.com/clipsheet/clipsheet-agent/internal/store"
	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

var allowedUploadExts = map[string]bool{
	".prproj": true,
	".xml":    true,
}

func uploadProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			WriteError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed", "UPLOAD_TOO_LARGE")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "file field is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		filename := filepath.Base(header.Filename)
		ext := strings.ToLower(filepath.Ext(filename))
		if !allowedUploadExts[ext] {
			WriteError(w, http.StatusBadRequest, "only .prproj and .xml files are accepted", "UNSUPPORTED_FILE_TYPE")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read upload", "BAD_REQUEST")
			return
		}

		graph, err := project.Parse(data)
		if err != nil {
			writeProjectError(w, err)
			return
		}
		sequences := graph.Sequences()

		id := store.NewID()
		path := filepath.Join(cfg.UploadsDir, id+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			cfg.Logger.Error("failed to store upload", "error", err, "path", path)
			WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
			return
		}

		upload := &store.Upload{
			ID:            id,
			Filename:      filename,
			Path:          path,
			Size:          int64(len(data)),
			SequenceCount: len(sequences),
			CreatedAt:     time.Now().UTC(),
		}
		if err := cfg.Repository.CreateUpload(r.Context(), upload); err != nil {
			os.Remove(path)
			cfg.Logger.Error("failed to record upload", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to record upload", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("project uploaded",
			"upload_id", id, "filename", filename, "size", upload.Size, "sequences", len(sequences))
		WriteJSON(w, http.StatusCreated, UploadToResponse(upload, sequences))
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploads, err := cfg.Repository.ListUploads(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := make([]UploadResponse, len(uploads))
		for i, u := range uploads {
			resp[i] = UploadToResponse(u, nil)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listSequencesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := uploadFromRequest(cfg, w, r)
		if !ok {
			return
		}

		graph, err := project.Load(upload.Path)
		if err != nil {
			writeProjectError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, SequencesResponse{Sequences: graph.Sequences()})
	}
}

func extractHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := uploadFromRequest(cfg, w, r)
		if !ok {
			return
		}

		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		result, ok := runExtraction(cfg, w, r, upload, req.Sequence, timeline.Options{
			FPSOverride: req.FPS,
			CapSeconds:  req.CapSeconds,
		})
		if !ok {
			return
		}

		extraction := &store.Extraction{
			ID:            store.NewID(),
			UploadID:      upload.ID,
			ProjectName:   upload.Filename,
			SequenceName:  result.SequenceName,
			FPS:           result.FPS,
			ClipCount:     len(result.Grouped),
			InstanceCount: len(result.PerInstance),
			WarningCount:  len(result.Warnings),
			CreatedAt:     time.Now().UTC(),
		}
		if err := cfg.Repository.CreateExtraction(r.Context(), extraction); err != nil {
			cfg.Logger.Error("failed to record extraction", "error", err, "upload_id", upload.ID)
		}

		WriteJSON(w, http.StatusOK, ExtractResponse{
			ExtractionID: extraction.ID,
			Result:       result,
			Visualizer:   export.BuildVisualizerPayload(result),
		})
	}
}

func exportCSVHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := uploadFromRequest(cfg, w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		view := q.Get("view")
		if view == "" {
			view = "grouped"
		}
		if view != "grouped" && view != "instances" {
			WriteError(w, http.StatusBadRequest, "view must be grouped or instances", "BAD_REQUEST")
			return
		}

		var opts timeline.Options
		if v := q.Get("fps"); v != "" {
			fps, err := strconv.ParseFloat(v, 64)
			if err != nil || fps <= 0 {
				WriteError(w, http.StatusBadRequest, "fps must be a positive number", "BAD_REQUEST")
				return
			}
			opts.FPSOverride = fps
		}
		if v := q.Get("cap"); v != "" {
			capSec, err := strconv.ParseFloat(v, 64)
			if err != nil || capSec < 0 {
				WriteError(w, http.StatusBadRequest, "cap must be a non-negative number", "BAD_REQUEST")
				return
			}
			opts.CapSeconds = capSec
		}

		result, ok := runExtraction(cfg, w, r, upload, q.Get("sequence"), opts)
		if !ok {
			return
		}

		projectBase := strings.TrimSuffix(upload.Filename, filepath.Ext(upload.Filename))
		name := export.TimelineCSVName(projectBase, result.SequenceName)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

		var err error
		if view == "instances" {
			err = export.WritePerInstanceCSV(w, result.PerInstance)
		} else {
			err = export.WriteGroupedCSV(w, result.Grouped)
		}
		if err != nil {
			cfg.Logger.Error("csv export failed", "error", err, "upload_id", upload.ID)
		}
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := uploadFromRequest(cfg, w, r)
		if !ok {
			return
		}

		if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
			cfg.Logger.Warn("failed to remove upload file", "error", err, "path", upload.Path)
		}
		if err := cfg.Repository.DeleteUpload(r.Context(), upload.ID); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to delete project", "INTERNAL_ERROR")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadFromRequest resolves the {id} route parameter to its upload row,
// writing the error response itself on failure.
func uploadFromRequest(cfg ServerConfig, w http.ResponseWriter, r *http.Request) (*store.Upload, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "project id required", "BAD_REQUEST")
		return nil, false
	}

	upload, err := cfg.Repository.GetUpload(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
		return nil, false
	}
	if upload == nil {
		WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
		return nil, false
	}
	return upload, true
}

// runExtraction loads the uploaded project and extracts the requested
// sequence, falling back to the project's first sequence when none is named.
func runExtraction(cfg ServerConfig, w http.ResponseWriter, r *http.Request, upload *store.Upload, sequence string, opts timeline.Options) (*timeline.Result, bool) {
	graph, err := project.Load(upload.Path)
	if err != nil {
		writeProjectError(w, err)
		return nil, false
	}

	if sequence == "" {
		sequences := graph.Sequences()
		if len(sequences) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "project contains no sequences", "NO_SEQUENCES")
			return nil, false
		}
		sequence = sequences[0].Name
	}

	extractor := timeline.NewExtractor(graph, cfg.Logger)
	result, err := extractor.Extract(sequence, opts)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrSequenceNotFound):
			WriteError(w, http.StatusNotFound, err.Error(), "SEQUENCE_NOT_FOUND")
		case errors.Is(err, timeline.ErrCyclicNesting):
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "CYCLIC_NESTING")
		default:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
		}
		return nil, false
	}
	return result, true
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrUnsupportedFormat):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "UNSUPPORTED_FORMAT")
	case errors.Is(err, project.ErrCorruptProject):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "CORRUPT_PROJECT")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}
