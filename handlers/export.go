package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"projectdb/database"
	"projectdb/report"
	"projectdb/workload"
)

type ExportHandler struct {
	store WorkloadStore
	codec *workload.DateCodec
}

func NewExportHandler(store WorkloadStore, codec *workload.DateCodec) *ExportHandler {
	return &ExportHandler{store: store, codec: codec}
}

// monthRange reads month/year query parameters, defaulting to the current
// month, and returns the first and last day keys of that month.
func (h *ExportHandler) monthRange(r *http.Request) (int, time.Month, string, string, error) {
	now := h.codec.Now()
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, "", "", fmt.Errorf("%w: invalid month", errBadRequest)
		}
		month = time.Month(m)
	}
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			return 0, 0, "", "", fmt.Errorf("%w: invalid year", errBadRequest)
		}
		year = y
	}

	loc := h.codec.Location()
	first := time.Date(year, month, 1, 12, 0, 0, 0, loc)
	last := time.Date(year, month+1, 0, 12, 0, 0, 0, loc)
	return year, month, workload.Key(first), workload.Key(last), nil
}

func (h *ExportHandler) rows(ctx context.Context, from, to string, projectID uint) ([]report.Row, workload.Summary, error) {
	plans, actuals, err := h.store.FetchRange(ctx, database.Filter{From: from, To: to, ProjectID: projectID})
	if err != nil {
		return nil, workload.Summary{}, err
	}
	unified := workload.Reconcile(plans, actuals)
	users, projects, err := h.store.Names(ctx, unified)
	if err != nil {
		return nil, workload.Summary{}, err
	}
	return report.BuildRows(unified, users, projects), workload.Summarize(unified), nil
}

func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	year, month, from, to, err := h.monthRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := optionalUint(r, "project_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, _, err := h.rows(r.Context(), from, to, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("workloads_%d_%02d.csv", year, int(month))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	writeFile(w, r, buf.Bytes())
}

func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	year, month, from, to, err := h.monthRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := optionalUint(r, "project_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, summary, err := h.rows(r.Context(), from, to, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	buf, err := report.WriteXLSX(rows, summary)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("workloads_%d_%02d.xlsx", year, int(month))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	writeFile(w, r, buf.Bytes())
}

// writeFile sends an already rendered export. Headers are out by the time a
// write fails, so the failure can only be logged.
func writeFile(w http.ResponseWriter, r *http.Request, data []byte) {
	if _, err := w.Write(data); err != nil {
		log.Printf("%s %s: writing export: %v", r.Method, r.URL.Path, err)
	}
}
