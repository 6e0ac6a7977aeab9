package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/knitinfo/knitinfo-backend/internal/auth"
	"github.com/knitinfo/knitinfo-backend/internal/admins"
	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/internal/priorities"
	"github.com/knitinfo/knitinfo-backend/internal/submissions"
	"github.com/knitinfo/knitinfo-backend/internal/visitors"
	pkgAuth "github.com/knitinfo/knitinfo-backend/pkg/auth"
	"github.com/knitinfo/knitinfo-backend/pkg/auth/session"
	"github.com/knitinfo/knitinfo-backend/pkg/config"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "token"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*admins.AdminDTO, error) {
	return &admins.AdminDTO{Email: req.Email}, nil
}

type stubCompaniesService struct{}

func (stubCompaniesService) ListByCategory(ctx context.Context, rawCategory string) ([]companies.CompanyDTO, error) {
	return []companies.CompanyDTO{}, nil
}

func (stubCompaniesService) Get(ctx context.Context, id uuid.UUID) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id}, nil
}

func (stubCompaniesService) Create(ctx context.Context, input companies.CreateCompanyInput) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{Name: input.Name}, nil
}

func (stubCompaniesService) Update(ctx context.Context, id uuid.UUID, input companies.UpdateCompanyInput) (*companies.CompanyDTO, error) {
	return &companies.CompanyDTO{ID: id}, nil
}

func (stubCompaniesService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubCompaniesService) Search(ctx context.Context, query string, params pagination.Params) ([]companies.CompanyDTO, string, error) {
	return []companies.CompanyDTO{}, "", nil
}

type stubSubmissionsService struct{}

func (stubSubmissionsService) Submit(ctx context.Context, input submissions.SubmitInput) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{ID: uuid.New()}, nil
}

func (stubSubmissionsService) Get(ctx context.Context, id uuid.UUID) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{ID: id}, nil
}

func (stubSubmissionsService) List(ctx context.Context, rawStatus string) ([]submissions.SubmissionDTO, error) {
	return []submissions.SubmissionDTO{}, nil
}

func (stubSubmissionsService) Approve(ctx context.Context, id uuid.UUID, reviewNotes *string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubSubmissionsService) Reject(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubSubmissionsService) SetStatus(ctx context.Context, id uuid.UUID, input submissions.SetStatusInput) (*submissions.SetStatusResult, error) {
	return &submissions.SetStatusResult{Status: enums.SubmissionStatus(input.Status)}, nil
}

type stubPrioritiesService struct{}

func (stubPrioritiesService) SetPriority(ctx context.Context, input priorities.SetPriorityInput) (*priorities.PriorityDTO, error) {
	return &priorities.PriorityDTO{CompanyName: input.CompanyName}, nil
}

func (stubPrioritiesService) List(ctx context.Context) ([]priorities.PriorityDTO, error) {
	return []priorities.PriorityDTO{}, nil
}

func (stubPrioritiesService) Get(ctx context.Context, id uuid.UUID) (*priorities.PriorityDTO, error) {
	return &priorities.PriorityDTO{ID: id}, nil
}

func (stubPrioritiesService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubVisitorsService struct{}

func (stubVisitorsService) RecordVisit(ctx context.Context, sessionID string) (int64, error) {
	return 1, nil
}

func (stubVisitorsService) PingActive(ctx context.Context, sessionID string) error {
	return nil
}

func (stubVisitorsService) TotalCount(ctx context.Context) (int64, error) {
	return 1, nil
}

func (stubVisitorsService) ActiveCount(ctx context.Context) (int64, error) {
	return 1, nil
}

func (stubVisitorsService) Counts(ctx context.Context) (*visitors.Counts, error) {
	return &visitors.Counts{TotalVisitors: 1, ActiveVisitors: 1}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:             cfg,
		Logger:             logg,
		DB:                 stubPinger{},
		Sessions:           stubSessionManager{},
		AuthService:        stubAuthService{},
		CompaniesService:   stubCompaniesService{},
		SubmissionsService: stubSubmissionsService{},
		PrioritiesService:  stubPrioritiesService{},
		VisitorsService:    stubVisitorsService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicCategoryListing(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/companies/category/spinning-mills", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public listing got %d", resp.Code)
	}
}

func TestPublicSubmissionIntake(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"type":"add_data","formData":{"name":"Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for submission got %d", resp.Code)
	}
}

func TestPublicSubmissionRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestVisitorRoutesArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for visitor counts got %d", resp.Code)
	}

	body := `{"sessionId":"session-1234"}`
	req = httptest.NewRequest(http.MethodPost, "/api/visitors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for visit record got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "viewer"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgAuth.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminPrioritiesRequireAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/priorities", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/priorities", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgAuth.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin priorities got %d", resp.Code)
	}
}

func TestRegisterRouteHiddenInProd(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "prod"
	router := newTestRouter(cfg)

	body := `{"email":"ops@knitinfo.example","password":"longenoughpass","name":"Ops"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusCreated {
		t.Fatalf("register should not be mounted in prod, got %d", resp.Code)
	}
}

func TestLoginRouteMounted(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"email":"ops@knitinfo.example","password":"longenoughpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for stub login got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "ops@knitinfo.example",
		Role:    role,
		JTI:     accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
