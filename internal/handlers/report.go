package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/reports"
	"github.com/diewo77/go-workshop/internal/services"
)

// ReportHandler serves the activity log, dashboard statistics and the
// spreadsheet export.
type ReportHandler struct {
	activity  *services.ActivityService
	dashboard *services.DashboardService
	reports   *services.ReportService
	gate      *policy.Gate
}

func NewReportHandler(activity *services.ActivityService, dashboard *services.DashboardService, reports *services.ReportService, gate *policy.Gate) *ReportHandler {
	return &ReportHandler{activity: activity, dashboard: dashboard, reports: reports, gate: gate}
}

func (h *ReportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/logs", h.Logs)
	mux.HandleFunc("GET "+Prefix+"/dashboard", h.Dashboard)
	mux.Handle("GET "+Prefix+"/reports/inventory.xlsx",
		h.gate.RequirePermission(policy.ResourceReport, policy.ActionView)(http.HandlerFunc(h.Inventory)))
}

// Logs: GET /logs?q=&action=
func (h *ReportHandler) Logs(w http.ResponseWriter, r *http.Request) {
	items, err := h.activity.List(r.Context(), actorID(r), filterFrom(r, "action"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.dashboard.Stats(r.Context(), actorID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	f, err := h.reports.Workbook(r.Context(), actorID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		httpx.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", reports.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
