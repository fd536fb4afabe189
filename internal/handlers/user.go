package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/services"
)

type UserHandler struct {
	svc  *services.UserService
	gate *policy.Gate
}

func NewUserHandler(svc *services.UserService, gate *policy.Gate) *UserHandler {
	return &UserHandler{svc: svc, gate: gate}
}

func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/me", h.Me)
	mux.HandleFunc("GET "+Prefix+"/users", h.List)
	mux.HandleFunc("POST "+Prefix+"/users", h.Create)
	mux.HandleFunc("PATCH "+Prefix+"/users/{id}", h.Update)
}

// Me returns the acting user with the permissions of their role and stamps
// their last login. Clients call it when a session starts.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := h.gate.Actor(r.Context(), actorID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.svc.Touch(r.Context(), actor.ID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":          actor.ID,
		"name":        actor.Name,
		"role":        actor.Role,
		"permissions": actor.Profile.Permissions(),
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), actorID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(items))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	u, err := h.svc.Create(r.Context(), actorID(r), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.UserPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.Error(w, err)
		return
	}
	u, err := h.svc.Update(r.Context(), actorID(r), r.PathValue("id"), patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
