package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/validation"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.ErrUnauthorized, http.StatusForbidden},
		{fmt.Errorf("product x: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrInvalidAmount, http.StatusBadRequest},
		{models.ErrIllegalTransition, http.StatusConflict},
		{models.ErrInvalidState, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("%w: %w", models.ErrValidation, validation.Violations{"name": "required"}.Err())
	Error(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Details["name"] != "required" {
		t.Errorf("details = %v", body.Details)
	}
}

func TestError_HidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: password authentication failed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Brake Pads"}`))
	if err := Decode(r, &dst); err != nil || dst.Name != "Brake Pads" {
		t.Fatalf("Decode = %v, %+v", err, dst)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nme":"x"}`))
	if err := Decode(r, &dst); !errors.Is(err, models.ErrValidation) {
		t.Errorf("unknown field: err = %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	err := Decode(r, &dst)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("trailing object: err = %v", err)
	}
	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Violations["body"] != "single_object_expected" {
		t.Errorf("trailing object: violations = %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{\"name\":\"Oil\"}\n"))
	if err := Decode(r, &dst); err != nil || dst.Name != "Oil" {
		t.Errorf("trailing newline: Decode = %v, %+v", err, dst)
	}
}
