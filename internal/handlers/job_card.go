package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/services"
)

type JobCardHandler struct {
	svc *services.JobCardService
}

func NewJobCardHandler(svc *services.JobCardService) *JobCardHandler {
	return &JobCardHandler{svc: svc}
}

func (h *JobCardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/job-cards", h.List)
	mux.HandleFunc("POST "+Prefix+"/job-cards", h.Create)
	mux.HandleFunc("GET "+Prefix+"/job-cards/{id}", h.View)
	mux.HandleFunc("POST "+Prefix+"/job-cards/{id}/parts", h.AddPart)
	mux.HandleFunc("DELETE "+Prefix+"/job-cards/{id}/parts/{productID}", h.RemovePart)
	mux.HandleFunc("POST "+Prefix+"/job-cards/{id}/status", h.Transition)
}

// List: GET /job-cards?q=&status=
func (h *JobCardHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), actorID(r), filterFrom(r, "status"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *JobCardHandler) View(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Get(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *JobCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.JobCardInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	card, err := h.svc.Create(r.Context(), actorID(r), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, card)
}

func (h *JobCardHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	var req services.PartRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	card, err := h.svc.AddPart(r.Context(), actorID(r), r.PathValue("id"), req.ProductID, req.Quantity)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *JobCardHandler) RemovePart(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.RemovePart(r.Context(), actorID(r), r.PathValue("id"), r.PathValue("productID"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

// Transition: POST /job-cards/{id}/status {"status":"in_progress"}
func (h *JobCardHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.JobCardStatus `json:"status"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, err)
		return
	}
	card, err := h.svc.Transition(r.Context(), actorID(r), r.PathValue("id"), body.Status)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}
