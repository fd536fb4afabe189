package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/services"
)

type InvoiceHandler struct {
	svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

func (h *InvoiceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/invoices", h.List)
	mux.HandleFunc("POST "+Prefix+"/invoices", h.Generate)
	mux.HandleFunc("GET "+Prefix+"/invoices/{id}", h.View)
	mux.HandleFunc("POST "+Prefix+"/invoices/{id}/paid", h.MarkPaid)
}

// List: GET /invoices?q=&status=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), actorID(r), filterFrom(r, "status"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Generate: POST /invoices {"job_card_id":"..."}
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobCardID string `json:"job_card_id"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, err)
		return
	}
	inv, err := h.svc.Generate(r.Context(), actorID(r), body.JobCardID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.MarkPaid(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}
