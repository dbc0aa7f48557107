package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/internal/model"
	"github.com/umutkutlutr/CompGradToolbox/internal/repository"
)

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[string]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.Term)}
}

func (m *mockTermRepo) Create(_ context.Context, term *model.Term) error {
	if term.TermID == "" {
		term.TermID = "term-" + term.Name
	}
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) GetByID(_ context.Context, id string) (*model.Term, error) {
	if t, ok := m.terms[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) GetActive(_ context.Context) (*model.Term, error) {
	for _, t := range m.terms {
		if t.IsActive {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) List(_ context.Context) ([]model.Term, error) {
	var result []model.Term
	for _, t := range m.terms {
		result = append(result, *t)
	}
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "c-" + course.Code
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, termID, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code && c.TermID != nil && *c.TermID == termID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) sorted(filter func(*model.Course) bool) []model.Course {
	var result []model.Course
	for _, c := range m.courses {
		if filter == nil || filter(c) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	return m.sorted(nil), nil
}

func (m *mockCourseRepo) ListByTerm(_ context.Context, termID string) ([]model.Course, error) {
	return m.sorted(func(c *model.Course) bool {
		return c.TermID != nil && *c.TermID == termID
	}), nil
}

// ── Mock TARepository ──

type mockTARepo struct {
	tas map[string]*model.TA
}

func newMockTARepo() *mockTARepo {
	return &mockTARepo{tas: make(map[string]*model.TA)}
}

func (m *mockTARepo) Create(_ context.Context, ta *model.TA) error {
	if ta.TAID == "" {
		ta.TAID = "t-" + ta.Name
	}
	m.tas[ta.TAID] = ta
	return nil
}

func (m *mockTARepo) GetByName(_ context.Context, name string) (*model.TA, error) {
	for _, ta := range m.tas {
		if ta.Name == name {
			return ta, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTARepo) List(_ context.Context) ([]model.TA, error) {
	ids := make([]string, 0, len(m.tas))
	for id := range m.tas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]model.TA, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.tas[id])
	}
	return result, nil
}

func (m *mockTARepo) ListByNames(_ context.Context, names []string) ([]model.TA, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var result []model.TA
	for _, ta := range m.tas {
		if wanted[ta.Name] {
			result = append(result, *ta)
		}
	}
	return result, nil
}

// ── Mock ProfessorRepository ──

type mockProfessorRepo struct {
	professors map[string]*model.Professor
}

func newMockProfessorRepo() *mockProfessorRepo {
	return &mockProfessorRepo{professors: make(map[string]*model.Professor)}
}

func (m *mockProfessorRepo) Create(_ context.Context, professor *model.Professor) error {
	if professor.ProfessorID == "" {
		professor.ProfessorID = "p-" + professor.Name
	}
	m.professors[professor.ProfessorID] = professor
	return nil
}

func (m *mockProfessorRepo) List(_ context.Context) ([]model.Professor, error) {
	var result []model.Professor
	for _, p := range m.professors {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock WeightRepository ──

type mockWeightRepo struct {
	weight *model.Weight
}

func newMockWeightRepo() *mockWeightRepo {
	return &mockWeightRepo{}
}

func (m *mockWeightRepo) Get(_ context.Context) (*model.Weight, error) {
	if m.weight == nil {
		return &model.Weight{WeightID: 1, Skill: 0.25, FacultyPref: 0.25, TAPref: 0.25, WorkloadBalance: 0.25}, nil
	}
	return m.weight, nil
}

func (m *mockWeightRepo) Save(_ context.Context, weight *model.Weight) error {
	w := *weight
	m.weight = &w
	return nil
}

// ── Mock AssignmentRepository ──
// courses/tas 引用与 mockCourseRepo/mockTARepo 共享，用于模拟 Preload

type mockAssignmentRepo struct {
	byTerm  map[string]*model.Assignment
	courses map[string]*model.Course
	tas     map[string]*model.TA
	seq     int
}

func newMockAssignmentRepo(courses map[string]*model.Course, tas map[string]*model.TA) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		byTerm:  make(map[string]*model.Assignment),
		courses: courses,
		tas:     tas,
	}
}

func (m *mockAssignmentRepo) hydrate(a *model.Assignment) {
	for i := range a.Items {
		item := &a.Items[i]
		if c, ok := m.courses[item.CourseID]; ok {
			item.Course = c
		}
		if ta, ok := m.tas[item.TAID]; ok {
			item.TA = ta
		}
	}
}

func (m *mockAssignmentRepo) GetCurrentByTerm(_ context.Context, termID string) (*model.Assignment, error) {
	a, ok := m.byTerm[termID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.hydrate(a)
	return a, nil
}

func (m *mockAssignmentRepo) Replace(_ context.Context, assignment *model.Assignment, items []model.AssignmentItem) error {
	m.seq++
	assignment.AssignmentID = fmt.Sprintf("asg-%d", m.seq)
	assignment.Status = "current"
	assignment.Version = 1
	for i := range items {
		items[i].AssignmentID = assignment.AssignmentID
	}
	assignment.Items = items
	m.byTerm[assignment.TermID] = assignment
	return nil
}

func (m *mockAssignmentRepo) PatchItems(_ context.Context, assignment *model.Assignment, courseID string, removeTAIDs []string, addItems []model.AssignmentItem) error {
	removed := make(map[string]bool, len(removeTAIDs))
	for _, id := range removeTAIDs {
		removed[id] = true
	}
	kept := assignment.Items[:0]
	for _, item := range assignment.Items {
		if item.CourseID == courseID && removed[item.TAID] {
			continue
		}
		kept = append(kept, item)
	}
	for i := range addItems {
		addItems[i].AssignmentID = assignment.AssignmentID
		addItems[i].CourseID = courseID
	}
	assignment.Items = append(kept, addItems...)
	assignment.Version++
	return nil
}

// ── Mock OverrideRecordRepository ──

type mockOverrideRepo struct {
	records []model.OverrideRecord
	courses map[string]*model.Course
}

func newMockOverrideRepo(courses map[string]*model.Course) *mockOverrideRepo {
	return &mockOverrideRepo{courses: courses}
}

func (m *mockOverrideRepo) Create(_ context.Context, record *model.OverrideRecord) error {
	record.OverrideID = fmt.Sprintf("ovr-%d", len(m.records)+1)
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

func (m *mockOverrideRepo) ListByAssignment(_ context.Context, assignmentID string, offset, limit int) ([]model.OverrideRecord, int64, error) {
	var matched []model.OverrideRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.AssignmentID != assignmentID {
			continue
		}
		if c, ok := m.courses[r.CourseID]; ok {
			r.Course = c
		}
		matched = append(matched, r)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct {
	logs []model.ActivityLog
}

func newMockActivityLogRepo() *mockActivityLogRepo {
	return &mockActivityLogRepo{}
}

func (m *mockActivityLogRepo) Create(_ context.Context, log *model.ActivityLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityLogRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > len(m.logs) {
		limit = len(m.logs)
	}
	var result []model.ActivityLog
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.logs[i])
	}
	return result, nil
}

// ── 测试聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	term        *mockTermRepo
	course      *mockCourseRepo
	ta          *mockTARepo
	professor   *mockProfessorRepo
	weight      *mockWeightRepo
	assignment  *mockAssignmentRepo
	override    *mockOverrideRepo
	activityLog *mockActivityLogRepo
}

func newTestRepos() *testRepos {
	course := newMockCourseRepo()
	ta := newMockTARepo()
	return &testRepos{
		term:        newMockTermRepo(),
		course:      course,
		ta:          ta,
		professor:   newMockProfessorRepo(),
		weight:      newMockWeightRepo(),
		assignment:  newMockAssignmentRepo(course.courses, ta.tas),
		override:    newMockOverrideRepo(course.courses),
		activityLog: newMockActivityLogRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Term:        r.term,
		Course:      r.course,
		TA:          r.ta,
		Professor:   r.professor,
		Weight:      r.weight,
		Assignment:  r.assignment,
		Override:    r.override,
		ActivityLog: r.activityLog,
	}
}
