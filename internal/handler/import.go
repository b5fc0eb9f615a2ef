package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/importer"
	"github.com/growthpath/backend/internal/repository"
)

var excelExtensions = []string{".xlsx", ".xls"}

func (h *Handler) ImportPlanisware(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Import.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Import.MaxUploadSize); err != nil {
		h.badRequest(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		switch {
		case errors.Is(err, http.ErrMissingFile):
			h.errorResponse(w, r, http.StatusBadRequest, "No file uploaded")
		default:
			h.badRequest(w, r, err)
		}
		return
	}
	defer file.Close()

	if !slices.Contains(excelExtensions, strings.ToLower(filepath.Ext(header.Filename))) {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid file type. Please upload an Excel file (.xlsx or .xls)")
		return
	}

	startedAt := time.Now()
	stats, err := h.importer.Import(file)
	if err != nil {
		var missing *importer.MissingColumnsError
		switch {
		case errors.As(err, &missing):
			h.errorResponse(w, r, http.StatusBadRequest, missing.Error())
		case errors.Is(err, importer.ErrEmptySheet):
			h.errorResponse(w, r, http.StatusBadRequest, "The Excel file is empty")
		case errors.Is(err, importer.ErrUnreadableFile):
			h.errorResponse(w, r, http.StatusBadRequest, "Unable to read the Excel file")
		default:
			h.operationFailed(w, r, "Import failed", err)
		}
		return
	}

	report := &domain.ImportReport{
		RunID:      uuid.NewString(),
		FileName:   header.Filename,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Statistics: stats,
	}
	// 报告保存失败不影响导入结果
	if err := h.reports.Save(report); err != nil {
		slog.Warn("保存导入报告失败", "runID", report.RunID, "error", err)
	}

	slog.Info("导入完成", "runID", report.RunID, "file", header.Filename, "rowsProcessed", stats.RowsProcessed, "errors", len(stats.Errors))

	h.flatResponse(w, r, "Import completed successfully", map[string]any{
		"run_id":     report.RunID,
		"statistics": stats,
	})
}

func (h *Handler) GetImportStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.GetDatabaseCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Import status retrieved", counts)
}

func (h *Handler) GetImportRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Get(chi.URLParam(r, "runID"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReportNotFound):
			h.notFound(w, r, "Import run not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Import run retrieved", report)
}
