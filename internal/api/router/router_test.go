package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"classroom-portal/config"
	"classroom-portal/internal/api/handler"
	"classroom-portal/internal/dto"
	"classroom-portal/pkg/jwt"
)

func init() {
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// setupRouter 服务均为 nil，只用于验证在进入 handler 之前被拦截的请求
func setupRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20},
		Auth:   config.AuthConfig{JWTSecret: "test-secret-key-0123456789", AccessTokenTTL: time.Hour},
	}
	mgr := jwt.NewManager(&cfg.Auth)
	h := &handler.Handler{
		Auth:        handler.NewAuthHandler(nil),
		Classroom:   handler.NewClassroomHandler(nil, nil),
		Schedule:    handler.NewScheduleHandler(nil),
		Reservation: handler.NewReservationHandler(nil),
		Meeting:     handler.NewMeetingHandler(nil),
		Export:      handler.NewExportHandler(nil, nil),
	}
	return Setup(cfg, h, mgr, nil, zap.NewNop()), mgr
}

func request(t *testing.T, r http.Handler, mgr *jwt.Manager, role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := mgr.GenerateAccessToken("user-1", role)
	if err != nil {
		t.Fatalf("生成 Token 应成功: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_MeetingCreateStudentOnly(t *testing.T) {
	r, mgr := setupRouter(t)

	tests := []struct {
		role     string
		wantHTTP int
	}{
		{"teacher", http.StatusForbidden},
		{"admin", http.StatusForbidden},
		// 学生通过角色检查，空请求体在参数校验阶段被拒
		{"student", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			w := request(t, r, mgr, tt.role, "POST", "/api/v1/meetings", "{}")
			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
		})
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	r, mgr := setupRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/schedules"},
		{"DELETE", "/api/v1/schedules/s-1"},
		{"PUT", "/api/v1/reservations/r-1/status"},
		{"POST", "/api/v1/classrooms"},
		{"GET", "/api/v1/classrooms/c-1/conflicts"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := request(t, r, mgr, "student", rt.method, rt.path, "{}")
			if w.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", w.Code)
			}
		})
	}
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
