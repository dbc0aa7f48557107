package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/umutkutlutr/CompGradToolbox/internal/dto"
	"github.com/umutkutlutr/CompGradToolbox/internal/service"
	"github.com/umutkutlutr/CompGradToolbox/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock WeightService ──

type mockWeightService struct {
	getResult *dto.WeightsResponse
	getErr    error
	setResult *dto.WeightsResponse
	setErr    error
	setActor  string
}

func (m *mockWeightService) GetWeights(_ context.Context) (*dto.WeightsResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockWeightService) SetWeights(_ context.Context, _ *dto.UpdateWeightsRequest, actor string) (*dto.WeightsResponse, error) {
	m.setActor = actor
	return m.setResult, m.setErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	runResult      *dto.RunAssignmentResponse
	runErr         error
	runActor       string
	getResult      *dto.AssignmentsResponse
	getErr         error
	overrideResult *dto.AssignmentsResponse
	overrideErr    error
	listResult     []dto.OverrideRecordResponse
	listTotal      int64
	listErr        error
}

func (m *mockAssignmentService) RunAssignment(_ context.Context, req *dto.RunAssignmentRequest) (*dto.RunAssignmentResponse, error) {
	m.runActor = req.Actor
	return m.runResult, m.runErr
}
func (m *mockAssignmentService) GetAssignments(_ context.Context, _ string) (*dto.AssignmentsResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockAssignmentService) Override(_ context.Context, _ *dto.OverrideRequest) (*dto.AssignmentsResponse, error) {
	return m.overrideResult, m.overrideErr
}
func (m *mockAssignmentService) ListOverrides(_ context.Context, _ *dto.OverrideListRequest) ([]dto.OverrideRecordResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── 测试辅助 ──

func jsonBody(v interface{}) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func f64(v float64) *float64 { return &v }

// ═══════════════════════════════════════════════════════════
// WeightHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWeightHandler_GetWeights(t *testing.T) {
	mock := &mockWeightService{
		getResult: &dto.WeightsResponse{SkillWeight: 0.4, FacultyPrefWeight: 0.3, TAPrefWeight: 0.2, WorkloadBalanceWeight: 0.1},
	}
	h := NewWeightHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/weights", nil)

	r := gin.New()
	r.GET("/weights", h.GetWeights)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestWeightHandler_SetWeights_ActorFromHeader(t *testing.T) {
	mock := &mockWeightService{setResult: &dto.WeightsResponse{}}
	h := NewWeightHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/weights", jsonBody(dto.UpdateWeightsRequest{
		SkillWeight:           f64(0.5),
		FacultyPrefWeight:     f64(0.2),
		TAPrefWeight:          f64(0.2),
		WorkloadBalanceWeight: f64(0.1),
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "张老师")

	r := gin.New()
	r.PUT("/weights", h.SetWeights)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.setActor != "张老师" {
		t.Errorf("expected actor from X-Actor header, got %s", mock.setActor)
	}
}

func TestWeightHandler_SetWeights_MissingField(t *testing.T) {
	h := NewWeightHandler(&mockWeightService{})

	w := httptest.NewRecorder()
	// 缺少 workload_balance_weight
	req := httptest.NewRequest("PUT", "/weights", bytes.NewReader([]byte(`{"skill_weight":0.5,"faculty_pref_weight":0.3,"ta_pref_weight":0.2}`)))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/weights", h.SetWeights)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWeightHandler_SetWeights_AllZero(t *testing.T) {
	mock := &mockWeightService{setErr: service.ErrWeightAllZero}
	h := NewWeightHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/weights", jsonBody(dto.UpdateWeightsRequest{
		SkillWeight:           f64(0),
		FacultyPrefWeight:     f64(0),
		TAPrefWeight:          f64(0),
		WorkloadBalanceWeight: f64(0),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/weights", h.SetWeights)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11102 {
		t.Errorf("expected error code 11102, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_RunAssignment_Success(t *testing.T) {
	mock := &mockAssignmentService{
		runResult: &dto.RunAssignmentResponse{AssignmentID: "asg-1", CoursesFilled: 2, CoursesTotal: 2, TAsPlaced: 3},
	}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/run", jsonBody(dto.RunAssignmentRequest{Actor: "admin"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/run", h.RunAssignment)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.runActor != "admin" {
		t.Errorf("expected actor admin, got %s", mock.runActor)
	}
}

func TestAssignmentHandler_RunAssignment_DefaultActor(t *testing.T) {
	mock := &mockAssignmentService{runResult: &dto.RunAssignmentResponse{}}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/run", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/run", h.RunAssignment)
	r.ServeHTTP(w, req)

	if mock.runActor != "system" {
		t.Errorf("expected fallback actor system, got %s", mock.runActor)
	}
}

func TestAssignmentHandler_RunAssignment_EmptyBody(t *testing.T) {
	mock := &mockAssignmentService{runResult: &dto.RunAssignmentResponse{}}
	h := NewAssignmentHandler(mock)

	// 请求体可完全省略，不应返回 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/run", nil)

	r := gin.New()
	r.POST("/assignments/run", h.RunAssignment)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.runActor != "system" {
		t.Errorf("expected fallback actor system, got %s", mock.runActor)
	}
}

func TestAssignmentHandler_GetAssignments_NoCurrent(t *testing.T) {
	mock := &mockAssignmentService{getErr: service.ErrNoCurrentAssignment}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/assignments?term_id=term-1", nil)

	r := gin.New()
	r.GET("/assignments", h.GetAssignments)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12104 {
		t.Errorf("expected error code 12104, got %d", resp.Code)
	}
}

func TestAssignmentHandler_Override_WorkloadConflict(t *testing.T) {
	mock := &mockAssignmentService{overrideErr: service.ErrOverrideWorkload}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/override", jsonBody(dto.OverrideRequest{
		CourseCode: "COMP302",
		AddTAs:     []string{"钱七"},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/override", h.Override)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12111 {
		t.Errorf("expected error code 12111, got %d", resp.Code)
	}
}

func TestAssignmentHandler_Override_MissingCourseCode(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/override", bytes.NewReader([]byte(`{"add_tas":["张三"]}`)))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/override", h.Override)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssignmentHandler_ListOverrides(t *testing.T) {
	mock := &mockAssignmentService{
		listResult: []dto.OverrideRecordResponse{{ID: "ovr-1", CourseCode: "COMP302", Actor: "admin"}},
		listTotal:  1,
	}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/assignments/overrides?page=1&page_size=20", nil)

	r := gin.New()
	r.GET("/assignments/overrides", h.ListOverrides)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}
