package api

import (
	"time"

	"github.com/clipsheet/clipsheet-agent/internal/export"
	"github.com/clipsheet/clipsheet-agent/internal/project"
	"github.com/clipsheet/clipsheet-agent/internal/store"
	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type UploadResponse struct {
	ID            string                 `json:"id"`
	Filename      string                 `json:"filename"`
	Size          int64                  `json:"size"`
	Sequences     []project.SequenceInfo `json:"sequences"`
	SequenceCount int                    `json:"sequence_count"`
	CreatedAt     string                 `json:"created_at"`
}

type SequencesResponse struct {
	Sequences []project.SequenceInfo `json:"sequences"`
}

type ExtractRequest struct {
	Sequence   string  `json:"sequence,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	CapSeconds float64 `json:"cap_seconds,omitempty"`
}

type ExtractResponse struct {
	ExtractionID string                    `json:"extraction_id"`
	Result       *timeline.Result          `json:"result"`
	Visualizer   *export.VisualizerPayload `json:"visualizer"`
}

type ExtractionResponse struct {
	ID            string  `json:"id"`
	UploadID      string  `json:"upload_id"`
	ProjectName   string  `json:"project_name"`
	SequenceName  string  `json:"sequence_name"`
	FPS           float64 `json:"fps"`
	ClipCount     int     `json:"clip_count"`
	InstanceCount int     `json:"instance_count"`
	WarningCount  int     `json:"warning_count"`
	CreatedAt     string  `json:"created_at"`
}

type ExtractionsResponse struct {
	Extractions []ExtractionResponse `json:"extractions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func UploadToResponse(u *store.Upload, sequences []project.SequenceInfo) UploadResponse {
	return UploadResponse{
		ID:            u.ID,
		Filename:      u.Filename,
		Size:          u.Size,
		Sequences:     sequences,
		SequenceCount: u.SequenceCount,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}

func ExtractionToResponse(e *store.Extraction) ExtractionResponse {
	return ExtractionResponse{
		ID:            e.ID,
		UploadID:      e.UploadID,
		ProjectName:   e.ProjectName,
		SequenceName:  e.SequenceName,
		FPS:           e.FPS,
		ClipCount:     e.ClipCount,
		InstanceCount: e.InstanceCount,
		WarningCount:  e.WarningCount,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
