package destiny

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	destinymodel "github.com/wanchen/pixelforge/backend/internal/model/destiny"
	destinyservice "github.com/wanchen/pixelforge/backend/internal/service/destiny"
)

type stubGateway struct{}

func (stubGateway) Converse(context.Context, []gateway.Turn) (string, error) {
	return "", nil
}

func (stubGateway) SynthesizeImage(context.Context, string) (string, error) {
	return "", nil
}

func (stubGateway) SynthesizeConcept(context.Context, string, string) (string, error) {
	return "a woven destiny", nil
}

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	svc := destinyservice.NewService(stubGateway{}, rand.NewSource(1))

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func TestWeaveWithoutCard(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/destiny/weave", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDrawThenWeave(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/destiny/draw", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("draw: expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/destiny/weave", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("weave: expected 200, got %d", resp.Code)
	}

	var result destinymodel.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if result.Concept != "a woven destiny" {
		t.Fatalf("unexpected concept: %q", result.Concept)
	}
}

func TestSelectUnknownType(t *testing.T) {
	r := setupRouter(t)

	body, _ := json.Marshal(map[string]string{"type": "ABCD"})
	req := httptest.NewRequest(http.MethodPost, "/destiny/type", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
