package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
	"github.com/nafisa/campgrounds/internal/service"
)

// memCampsiteRepo is a minimal in-memory campsite store for handler tests.
type memCampsiteRepo struct {
	campsites map[string]*model.Campsite
	nextID    int
}

func newMemCampsiteRepo() *memCampsiteRepo {
	return &memCampsiteRepo{campsites: make(map[string]*model.Campsite), nextID: 1}
}

func (m *memCampsiteRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Campsite, error) {
	out := []model.Campsite{}
	for _, c := range m.campsites {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCampsiteRepo) GetByID(ctx context.Context, id string) (*model.Campsite, error) {
	if c, ok := m.campsites[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperror.NotFound("campsite", id)
}

func (m *memCampsiteRepo) Create(ctx context.Context, campsite *model.Campsite) error {
	campsite.ID = fmt.Sprintf("camp-%d", m.nextID)
	m.nextID++
	copied := *campsite
	m.campsites[campsite.ID] = &copied
	return nil
}

func (m *memCampsiteRepo) Update(ctx context.Context, campsite *model.Campsite) error {
	copied := *campsite
	m.campsites[campsite.ID] = &copied
	return nil
}

func (m *memCampsiteRepo) Delete(ctx context.Context, id string) error {
	delete(m.campsites, id)
	return nil
}

func newTestCampsiteHandler(t *testing.T) (*CampsiteHandler, *memUserRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newMemUserRepo()
	svc := service.NewCampsiteService(newMemCampsiteRepo(), users, logger)
	return NewCampsiteHandler(svc, logger), users
}

// requestAs builds a request carrying the given user, the way the auth
// middleware would after validating a token.
func requestAs(t *testing.T, user *model.User, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func TestHandleCreateCampsite_NonAdminGets403WithMessage(t *testing.T) {
	h, users := newTestCampsiteHandler(t)

	regular := &model.User{Username: "alice"}
	if err := users.Create(context.Background(), regular); err != nil {
		t.Fatal(err)
	}

	req := requestAs(t, regular, http.MethodPost, "/api/campsites", `{"name":"Sneaky Site"}`)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	body := decodeBody(t, rec)
	want := "You are not authorized to perform this operation!"
	if body["message"] != want {
		t.Errorf("message = %q, want %q", body["message"], want)
	}
}

func TestHandleCreateCampsite_AdminSucceeds(t *testing.T) {
	h, users := newTestCampsiteHandler(t)

	admin := &model.User{Username: "root", IsAdmin: true}
	if err := users.Create(context.Background(), admin); err != nil {
		t.Fatal(err)
	}

	req := requestAs(t, admin, http.MethodPost, "/api/campsites", `{"name":"Cloud's Rest"}`)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["name"] != "Cloud's Rest" {
		t.Errorf("name = %q, want Cloud's Rest", body["name"])
	}
}

func TestHandleGetCampsite_NotFound(t *testing.T) {
	h, _ := newTestCampsiteHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/campsites/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
