package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/importer"
	"github.com/growthpath/backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

type fakeStore struct {
	Store

	users        map[int64]*domain.User
	history      map[int64][]*domain.AssessmentDetail
	areas        []*domain.CompetencyArea
	expectations map[string]map[int64]*domain.CompetencyExpectation

	createdPlans     []*domain.DevelopmentPlan
	objectiveUpdates int
	importRuns       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[int64]*domain.User),
		history:      make(map[int64][]*domain.AssessmentDetail),
		expectations: make(map[string]map[int64]*domain.CompetencyExpectation),
	}
}

func (s *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeStore) GetAssessmentsByUser(userID int64) ([]*domain.AssessmentDetail, error) {
	return s.history[userID], nil
}

func (s *fakeStore) GetAllCompetencyAreas() ([]*domain.CompetencyArea, error) {
	return s.areas, nil
}

func (s *fakeStore) GetCompetencyExpectationsByPayClass(payClass string) (map[int64]*domain.CompetencyExpectation, error) {
	return s.expectations[payClass], nil
}

func (s *fakeStore) CreateDevelopmentPlan(plan *domain.DevelopmentPlan) error {
	plan.ID = int64(len(s.createdPlans) + 1)
	for i, obj := range plan.Objectives {
		obj.ID = int64(i + 1)
		obj.PlanID = plan.ID
	}
	s.createdPlans = append(s.createdPlans, plan)
	return nil
}

func (s *fakeStore) UpdateLearningObjectiveStatus(id int64, status domain.ObjectiveStatus) (*domain.LearningObjective, error) {
	s.objectiveUpdates++
	if id != 1 {
		return nil, sql.ErrNoRows
	}
	return &domain.LearningObjective{ID: 1, Description: "Achieve PC08 level competency in Design", Priority: domain.PriorityHigh, Status: status}, nil
}

// RunImport 只用于没有可写入行的工作簿
func (s *fakeStore) RunImport(fn func(tx importer.Tx) error) error {
	s.importRuns++
	return fn(nil)
}

type fakeReports struct {
	saved []*domain.ImportReport
}

func (f *fakeReports) Save(report *domain.ImportReport) error {
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeReports) Get(runID string) (*domain.ImportReport, error) {
	for _, r := range f.saved {
		if r.RunID == runID {
			return r, nil
		}
	}
	return nil, repository.ErrReportNotFound
}

type fakeMail struct {
	sent []domain.MailMessage
}

func (f *fakeMail) Publish(msg domain.MailMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Import.EmailDomain = "bosch.com"
	cfg.Import.PlaceholderPassword = "password123"
	cfg.Import.MaxUploadSize = 1 << 20
	cfg.LLM.BaseURL = "http://127.0.0.1:0"
	cfg.LLM.DefaultModel = "claude-test@1"
	cfg.LLM.DefaultMaxTokens = 4096
	cfg.LLM.Timeout = 5
	cfg.Reference.Dir = "../../data"
	cfg.Reference.CareerFrameworkFile = "CareerFramework.json"
	cfg.Reference.TechMasterDataFile = "TechMasterData.json"
	cfg.Reference.SkillsetsFile = "Skillsets.json"
	return cfg
}

func newTestHandler(t *testing.T, cfg *config.Config, store Store, mail MailPublisher) *Handler {
	t.Helper()

	h, err := NewHandler(cfg, store, &fakeReports{}, mail)
	if err != nil {
		t.Fatalf("NewHandler error: %v", err)
	}
	h.RegisterRoutes()
	return h
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, h *Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestRootAndHealth(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("GET / = %d %+v", rec.Code, env)
	}
	var root map[string]string
	_ = json.Unmarshal(env.Data, &root)
	if root["message"] != "Welcome to GrowthPath API" || root["version"] != "0.1.0" {
		t.Errorf("root data = %v", root)
	}

	rec, env = serve(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"healthy"`) {
		t.Errorf("GET /health = %d %s", rec.Code, env.Data)
	}
}

func TestUserNotFound(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if rec.Code != http.StatusNotFound || env.Message != "User not found" {
		t.Errorf("GET /users/42 = %d %q", rec.Code, env.Message)
	}

	rec, _ = serve(t, h, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /users/abc = %d, want 400", rec.Code)
	}
}

func TestCreateCompetencyValidation(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	body := strings.NewReader(`{"name":"Go","category":"cooking"}`)
	rec, env := serve(t, h, httptest.NewRequest(http.MethodPost, "/competencies", body))
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("POST /competencies = %d %+v", rec.Code, env)
	}
	if !strings.Contains(env.Message, "category") {
		t.Errorf("message = %q, want it to name the category field", env.Message)
	}
}

func TestUpdateObjectiveStatus(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(t, testConfig(), store, nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodPut, "/api/career/objective/1?status=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", rec.Code)
	}
	if env.Message != "Invalid status. Must be one of: not_started, in_progress, completed" {
		t.Errorf("message = %q", env.Message)
	}
	if store.objectiveUpdates != 0 {
		t.Errorf("store was called for an invalid status")
	}

	rec, env = serve(t, h, httptest.NewRequest(http.MethodPut, "/api/career/objective/1?status=in_progress", nil))
	if rec.Code != http.StatusOK || env.Message != "Objective status updated to 'in_progress'" {
		t.Errorf("update = %d %q", rec.Code, env.Message)
	}

	rec, env = serve(t, h, httptest.NewRequest(http.MethodPut, "/api/career/objective/7?status=completed", nil))
	if rec.Code != http.StatusNotFound || env.Message != "Objective not found" {
		t.Errorf("missing objective = %d %q", rec.Code, env.Message)
	}
}

func TestGenerateDevelopmentPlan(t *testing.T) {
	store := newFakeStore()
	store.users[5] = &domain.User{ID: 5, Name: "John Doe", Email: "john.doe@bosch.com", Role: domain.RoleEmployee}
	store.areas = []*domain.CompetencyArea{
		{ID: 1, AreaKey: "design", Name: "Design"},
		{ID: 2, AreaKey: "delivery", Name: "Delivery"},
	}
	store.expectations["PC07"] = map[int64]*domain.CompetencyExpectation{
		1: {CompetencyAreaID: 1, PayClass: "PC07", Expectations: "Designs components"},
		2: {CompetencyAreaID: 2, PayClass: "PC07", Expectations: "Delivers features"},
	}
	store.expectations["PC08"] = map[int64]*domain.CompetencyExpectation{
		1: {CompetencyAreaID: 1, PayClass: "PC08", Expectations: "Designs systems"},
		2: {CompetencyAreaID: 2, PayClass: "PC08", Expectations: "Delivers features"},
	}
	mail := &fakeMail{}
	h := newTestHandler(t, testConfig(), store, mail)

	req := httptest.NewRequest(http.MethodPost, "/api/career/development-plan?user_id=5&current_level=PC07&target_level=PC08", nil)
	rec, env := serve(t, h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, message = %q", rec.Code, env.Message)
	}

	var data struct {
		Success            bool   `json:"success"`
		PlanID             int64  `json:"plan_id"`
		CreatedDate        string `json:"created_date"`
		TargetDate         string `json:"target_date"`
		TotalObjectives    int    `json:"total_objectives"`
		EstimatedTimeframe string `json:"estimated_timeframe"`
		Objectives         []struct {
			Competency   string `json:"competency"`
			CurrentState string `json:"current_state"`
			TargetState  string `json:"target_state"`
			Priority     string `json:"priority"`
			Status       string `json:"status"`
		} `json:"objectives"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !data.Success || data.PlanID != 1 || env.Message != "Development plan created" {
		t.Errorf("success = %v, plan_id = %d, message = %q", data.Success, data.PlanID, env.Message)
	}
	if env.Data != nil {
		t.Errorf("plan fields should be top level, got data = %s", env.Data)
	}

	if data.TotalObjectives != 1 || len(data.Objectives) != 1 {
		t.Fatalf("objectives = %+v, want one for Design", data.Objectives)
	}
	obj := data.Objectives[0]
	if obj.Competency != "Design" || obj.CurrentState != "Designs components" || obj.TargetState != "Designs systems" {
		t.Errorf("objective = %+v", obj)
	}
	if obj.Priority != "High" || obj.Status != "not_started" {
		t.Errorf("priority/status = %s/%s", obj.Priority, obj.Status)
	}
	if data.EstimatedTimeframe != "6 months" {
		t.Errorf("estimated_timeframe = %q", data.EstimatedTimeframe)
	}

	created, err := time.Parse(dateLayout, data.CreatedDate)
	if err != nil {
		t.Fatalf("created_date %q: %v", data.CreatedDate, err)
	}
	target, err := time.Parse(dateLayout, data.TargetDate)
	if err != nil {
		t.Fatalf("target_date %q: %v", data.TargetDate, err)
	}
	if days := target.Sub(created).Hours() / 24; days != 180 {
		t.Errorf("target - created = %v days, want 180", days)
	}

	if len(mail.sent) != 1 || mail.sent[0].To != "john.doe@bosch.com" || mail.sent[0].Type != domain.MailTypeDevelopmentPlanCreated {
		t.Errorf("mail sent = %+v", mail.sent)
	}
}

func TestGenerateDevelopmentPlanForUnknownUserSkipsMail(t *testing.T) {
	store := newFakeStore()
	mail := &fakeMail{}
	h := newTestHandler(t, testConfig(), store, mail)

	req := httptest.NewRequest(http.MethodPost, "/api/career/development-plan?user_id=9&current_level=PC07&target_level=PC08", nil)
	rec, env := serve(t, h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, message = %q", rec.Code, env.Message)
	}
	if len(store.createdPlans) != 1 || len(store.createdPlans[0].Objectives) != 0 {
		t.Errorf("created plans = %+v, want one empty plan", store.createdPlans)
	}
	if len(mail.sent) != 0 {
		t.Errorf("mail sent for unknown user: %+v", mail.sent)
	}
}

func TestGenerateDevelopmentPlanRequiresLevels(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/career/development-plan?user_id=1&current_level=PC07", nil))
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, "target_level") {
		t.Errorf("missing target = %d %q", rec.Code, env.Message)
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/import/planisware", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportRejectsFiles(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, uploadRequest(t, "skills.csv", []byte("Name,Skillset")))
	if rec.Code != http.StatusBadRequest || env.Message != "Invalid file type. Please upload an Excel file (.xlsx or .xls)" {
		t.Errorf("csv upload = %d %q", rec.Code, env.Message)
	}

	rec, env = serve(t, h, uploadRequest(t, "legacy.xls", []byte("not a workbook")))
	if rec.Code != http.StatusBadRequest || env.Message != "Unable to read the Excel file" {
		t.Errorf("xls upload = %d %q", rec.Code, env.Message)
	}
}

func TestImportReturnsStatisticsAtTopLevel(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(t, testConfig(), store, nil)

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range [][]any{
		{"Name", "Skillset", "Skillset Level"},
		{"", "Python", "1st"},
	} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rec, _ := serve(t, h, uploadRequest(t, "planisware.xlsx", wb.Bytes()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success    bool   `json:"success"`
		RunID      string `json:"run_id"`
		Statistics *struct {
			RowsSkipped  int      `json:"rows_skipped"`
			UsersCreated int      `json:"users_created"`
			Errors       []string `json:"errors"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.RunID == "" || body.Statistics == nil {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if body.Statistics.RowsSkipped != 1 || body.Statistics.UsersCreated != 0 {
		t.Errorf("statistics = %+v", body.Statistics)
	}
	if store.importRuns != 1 {
		t.Errorf("import transactions = %d, want 1", store.importRuns)
	}

	rec, _ = serve(t, h, httptest.NewRequest(http.MethodGet, "/import/runs/"+body.RunID, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET run = %d", rec.Code)
	}
}

func TestGroupAssessmentsTimestamps(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 15, 123456000, time.UTC)
	groups := groupAssessments([]*domain.AssessmentDetail{{
		Assessment: domain.Assessment{ID: 1, ProficiencyLevel: domain.ProficiencyExpert, AssessedAt: at},
		Competency: domain.Competency{ID: 2, Name: "Go", Category: domain.CategoryTechnical},
	}})

	got := groups[0].Competencies[0].AssessedAt
	if got != "2024-03-01T09:30:15.123456Z" {
		t.Errorf("assessed_at = %q", got)
	}
	parsed, err := time.Parse(time.RFC3339Nano, got)
	if err != nil || !parsed.Equal(at) {
		t.Errorf("assessed_at %q does not round-trip: %v", got, err)
	}
}

func TestGetImportRunNotFound(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/import/runs/missing", nil))
	if rec.Code != http.StatusNotFound || env.Message != "Import run not found" {
		t.Errorf("GET run = %d %q", rec.Code, env.Message)
	}
}

func TestChatCompletionPassesThroughVendorJSON(t *testing.T) {
	const vendorBody = `{"id":"msg_1","model":"claude-test@1","content":[{"type":"text","text":"hi"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, vendorBody)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.LLM.BaseURL = srv.URL
	cfg.LLM.APIKey = "secret"
	h := newTestHandler(t, cfg, newFakeStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/llm/chat", strings.NewReader(`{"user_content":"hello"}`))
	rec, _ := serve(t, h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != vendorBody {
		t.Errorf("body = %s, want vendor JSON unchanged", rec.Body.String())
	}
}

func TestChatCompletionWithoutKeyFails(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/llm/chat", strings.NewReader(`{"user_content":"hello"}`))
	rec, env := serve(t, h, req)
	if rec.Code != http.StatusInternalServerError || !strings.HasPrefix(env.Message, "LLM request failed: ") {
		t.Errorf("chat without key = %d %q", rec.Code, env.Message)
	}
}

func TestAnalyzeUserSkills(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &domain.User{ID: 1, Name: "Empty", Role: domain.RoleEmployee}
	store.users[2] = &domain.User{ID: 2, Name: "Skilled", Role: domain.RoleEmployee}
	store.history[2] = []*domain.AssessmentDetail{{
		Assessment: domain.Assessment{ID: 1, UserID: 2, CompetencyID: 3, ProficiencyLevel: domain.ProficiencyAdvanced},
		Competency: domain.Competency{ID: 3, Name: "Go", Category: domain.CategoryTechnical},
	}}
	h := newTestHandler(t, testConfig(), store, nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodPost, "/users/1/analyze-skills", nil))
	if rec.Code != http.StatusBadRequest || env.Message != "User has no skills to analyze" {
		t.Errorf("no skills = %d %q", rec.Code, env.Message)
	}

	rec, env = serve(t, h, httptest.NewRequest(http.MethodPost, "/users/2/analyze-skills", nil))
	if rec.Code != http.StatusServiceUnavailable || env.Message != "LLM service not configured. Please set LLM_FARM_API_KEY." {
		t.Errorf("not configured = %d %q", rec.Code, env.Message)
	}

	rec, _ = serve(t, h, httptest.NewRequest(http.MethodPost, "/users/3/analyze-skills", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user = %d, want 404", rec.Code)
	}
}

func TestLLMHealth(t *testing.T) {
	h := newTestHandler(t, testConfig(), newFakeStore(), nil)

	rec, env := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/llm/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data map[string]any
	_ = json.Unmarshal(env.Data, &data)
	if data["status"] != "not_configured" || data["has_api_key"] != false {
		t.Errorf("health = %v", data)
	}
	if data["endpoint_example"] != "http://127.0.0.1:0/publishers/anthropic/models/claude-test@1:rawPredict" {
		t.Errorf("endpoint_example = %v", data["endpoint_example"])
	}
}

func TestRecommendedSkillCategories(t *testing.T) {
	tests := []struct {
		payClass string
		want     int
	}{
		{"PC06", 1},
		{"PC08", 2},
		{"PC10", 3},
		{"PC99", 1},
	}
	for _, tt := range tests {
		if got := RecommendedSkillCategories(tt.payClass); len(got) != tt.want {
			t.Errorf("RecommendedSkillCategories(%s) = %v", tt.payClass, got)
		}
	}
}

func TestCurrentDetailsKeepsLatest(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []*domain.AssessmentDetail{
		{Assessment: domain.Assessment{ID: 1, UserID: 1, CompetencyID: 2, ProficiencyLevel: domain.ProficiencyBeginner, AssessedAt: t0}},
		{Assessment: domain.Assessment{ID: 2, UserID: 1, CompetencyID: 2, ProficiencyLevel: domain.ProficiencyAdvanced, AssessedAt: t0.Add(time.Hour)}},
		{Assessment: domain.Assessment{ID: 3, UserID: 1, CompetencyID: 1, ProficiencyLevel: domain.ProficiencyExpert, AssessedAt: t0}},
	}

	got := currentDetails(history)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		ids := make([]int64, 0, len(got))
		for _, d := range got {
			ids = append(ids, d.ID)
		}
		t.Errorf("current ids = %v, want [3 2]", ids)
	}
}
