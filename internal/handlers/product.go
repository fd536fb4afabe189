package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/services"
)

type ProductHandler struct {
	svc *services.ProductService
}

func NewProductHandler(svc *services.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/products", h.List)
	mux.HandleFunc("GET "+Prefix+"/products/low-stock", h.LowStock)
	mux.HandleFunc("POST "+Prefix+"/products", h.Create)
	mux.HandleFunc("GET "+Prefix+"/products/{id}", h.View)
	mux.HandleFunc("PATCH "+Prefix+"/products/{id}", h.Update)
	mux.HandleFunc("DELETE "+Prefix+"/products/{id}", h.Delete)
}

// List: GET /products?q=&type=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), actorID(r), filterFrom(r, "type"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.LowStock(r.Context(), actorID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), actorID(r), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.ProductPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.svc.Update(r.Context(), actorID(r), r.PathValue("id"), patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorID(r), r.PathValue("id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
