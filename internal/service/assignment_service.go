package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/config"
	"github.com/umutkutlutr/CompGradToolbox/internal/dto"
	"github.com/umutkutlutr/CompGradToolbox/internal/engine"
	"github.com/umutkutlutr/CompGradToolbox/internal/model"
	"github.com/umutkutlutr/CompGradToolbox/internal/repository"
	"github.com/umutkutlutr/CompGradToolbox/pkg/redis"
)

// ── 分配模块业务错误 ──

var (
	ErrTermNotFound        = errors.New("学期不存在")
	ErrNoActiveTerm        = errors.New("无激活学期")
	ErrNoCourses           = errors.New("该学期无课程，无法执行分配")
	ErrNoCurrentAssignment = errors.New("该学期暂无分配结果")
	ErrCourseNotFound      = errors.New("课程不存在")
	ErrTANotFound          = errors.New("TA 不存在")
	ErrOverrideNoChange    = errors.New("覆盖请求未包含任何变更")
	ErrOverrideNotAssigned = errors.New("待移除的 TA 未分配到该课程")
	ErrOverrideDuplicate   = errors.New("待添加的 TA 已分配到该课程")
	ErrOverrideCapacity    = errors.New("课程 TA 数量将超过申请上限")
	ErrOverrideWorkload    = errors.New("TA 工时将超过上限")
)

const assignmentCacheTTL = 5 * time.Minute

// AssignmentService 分配业务接口。
// 同一学期的求解与覆盖通过进程内互斥锁串行化（单写者），
// 数据库层的乐观锁作为跨进程部署时的兜底。
type AssignmentService interface {
	// 执行自动分配（全量求解，原子替换当前结果）
	RunAssignment(ctx context.Context, req *dto.RunAssignmentRequest) (*dto.RunAssignmentResponse, error)
	// 获取当前分配视图
	GetAssignments(ctx context.Context, termID string) (*dto.AssignmentsResponse, error)
	// 人工覆盖单门课程的 TA 集合（整体成功或整体拒绝）
	Override(ctx context.Context, req *dto.OverrideRequest) (*dto.AssignmentsResponse, error)
	// 获取覆盖审计记录
	ListOverrides(ctx context.Context, req *dto.OverrideListRequest) ([]dto.OverrideRecordResponse, int64, error)
}

type assignmentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil，降级为直读数据库
	logger *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // term ID → 写锁
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(cfg *config.Config, repo *repository.Repository, cache *redis.Client, logger *zap.Logger) AssignmentService {
	return &assignmentService{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// termLock 获取某学期的写锁（惰性创建）
func (s *assignmentService) termLock(termID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if mu, ok := s.locks[termID]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.locks[termID] = mu
	return mu
}

// resolveTerm 解析学期：ID 为空时取激活学期
func (s *assignmentService) resolveTerm(ctx context.Context, termID string) (*model.Term, error) {
	if termID == "" {
		term, err := s.repo.Term.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveTerm
			}
			s.logger.Error("查询激活学期失败", zap.Error(err))
			return nil, err
		}
		return term, nil
	}
	term, err := s.repo.Term.GetByID(ctx, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}
	return term, nil
}

// ════════════════════════════════════════════════════════════
// RunAssignment — 全量求解并原子替换当前分配结果
// ════════════════════════════════════════════════════════════

func (s *assignmentService) RunAssignment(ctx context.Context, req *dto.RunAssignmentRequest) (*dto.RunAssignmentResponse, error) {
	term, err := s.resolveTerm(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	mu := s.termLock(term.TermID)
	mu.Lock()
	defer mu.Unlock()

	// ── 阶段1: 加载输入快照 ──

	weight, err := s.repo.Weight.Get(ctx)
	if err != nil {
		s.logger.Error("查询权重失败", zap.Error(err))
		return nil, err
	}
	weights := engine.WeightVector{
		Skill:           weight.Skill,
		FacultyPref:     weight.FacultyPref,
		TAPref:          weight.TAPref,
		WorkloadBalance: weight.WorkloadBalance,
	}

	courses, err := s.repo.Course.ListByTerm(ctx, term.TermID)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNoCourses
	}
	tas, err := s.repo.TA.List(ctx)
	if err != nil {
		s.logger.Error("查询 TA 失败", zap.Error(err))
		return nil, err
	}
	professors, err := s.repo.Professor.List(ctx)
	if err != nil {
		s.logger.Error("查询教授失败", zap.Error(err))
		return nil, err
	}

	data := buildDataset(courses, tas, professors)

	// ── 阶段2: 求解 ──

	solver := engine.NewSolver(s.cfg.Assign.HoursPerCourse, s.cfg.Assign.MaxPerProfessor)
	result, err := solver.Solve(data, weights)
	if err != nil {
		// 致命输入错误（如全零权重）原样上抛，由 Handler 映射状态码
		return nil, err
	}

	// ── 阶段3: 原子落库 ──

	assignment := &model.Assignment{
		TermID: term.TermID,
	}
	assignment.CreatedBy = &req.Actor
	assignment.UpdatedBy = &req.Actor

	var items []model.AssignmentItem
	for courseID, taIDs := range result.Assignments {
		for _, taID := range taIDs {
			items = append(items, model.AssignmentItem{
				CourseID: courseID,
				TAID:     taID,
				Hours:    s.cfg.Assign.HoursPerCourse,
			})
		}
	}
	if err := s.repo.Assignment.Replace(ctx, assignment, items); err != nil {
		s.logger.Error("替换分配结果失败", zap.Error(err))
		return nil, err
	}

	// ── 阶段4: 审计、缓存失效与统计 ──

	_ = s.repo.ActivityLog.Create(ctx, &model.ActivityLog{
		Action: fmt.Sprintf("执行自动分配: 学期 %s，配对 %d 个", term.Name, len(items)),
		Actor:  req.Actor,
		Level:  "info",
	})
	for _, w := range result.Warnings {
		_ = s.repo.ActivityLog.Create(ctx, &model.ActivityLog{
			Action: w,
			Actor:  req.Actor,
			Level:  "warning",
		})
	}

	s.invalidateCache(ctx, term.TermID)

	filled := 0
	for i := range courses {
		c := &courses[i]
		if len(result.Assignments[c.CourseID]) >= c.RequestedTAs {
			filled++
		}
	}

	s.logger.Info("自动分配完成",
		zap.String("term", term.Name),
		zap.Int("courses_filled", filled),
		zap.Int("courses_total", len(courses)),
		zap.Int("tas_placed", len(result.Workloads)),
		zap.Int("warnings", len(result.Warnings)))

	return &dto.RunAssignmentResponse{
		AssignmentID:  assignment.AssignmentID,
		TermID:        term.TermID,
		CoursesFilled: filled,
		CoursesTotal:  len(courses),
		TAsPlaced:     len(result.Workloads),
		Warnings:      result.Warnings,
	}, nil
}

// ════════════════════════════════════════════════════════════
// GetAssignments — 当前分配视图（Redis 读缓存，未命中回源）
// ════════════════════════════════════════════════════════════

func (s *assignmentService) GetAssignments(ctx context.Context, termID string) (*dto.AssignmentsResponse, error) {
	term, err := s.resolveTerm(ctx, termID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if b, err := s.cache.GetCachedAssignments(ctx, term.TermID); err == nil && b != nil {
			var cached dto.AssignmentsResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("分配缓存解析失败，回源数据库", zap.String("term_id", term.TermID))
		}
	}

	assignment, err := s.repo.Assignment.GetCurrentByTerm(ctx, term.TermID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentAssignment
		}
		s.logger.Error("查询当前分配失败", zap.Error(err))
		return nil, err
	}

	view := buildAssignmentsView(assignment)

	if s.cache != nil {
		if b, err := json.Marshal(view); err == nil {
			if err := s.cache.CacheAssignments(ctx, term.TermID, b, assignmentCacheTTL); err != nil {
				s.logger.Warn("写入分配缓存失败", zap.Error(err))
			}
		}
	}

	return view, nil
}

// ════════════════════════════════════════════════════════════
// Override — 单门课程 TA 集合的人工覆盖
// ════════════════════════════════════════════════════════════
//
// 覆盖受与求解器相同的硬约束：容量、工时上限；此外待移除 TA 必须
// 当前在册，待添加 TA 不得重复。任一校验失败则整体拒绝，不做部分应用。

func (s *assignmentService) Override(ctx context.Context, req *dto.OverrideRequest) (*dto.AssignmentsResponse, error) {
	if len(req.RemoveTAs) == 0 && len(req.AddTAs) == 0 {
		return nil, ErrOverrideNoChange
	}

	term, err := s.resolveTerm(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	mu := s.termLock(term.TermID)
	mu.Lock()
	defer mu.Unlock()

	assignment, err := s.repo.Assignment.GetCurrentByTerm(ctx, term.TermID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentAssignment
		}
		s.logger.Error("查询当前分配失败", zap.Error(err))
		return nil, err
	}

	course, err := s.repo.Course.GetByCode(ctx, term.TermID, req.CourseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	// ── 阶段1: 快照当前状态 ──

	// 全学期工时账目按明细落库工时计账，不按当前配置常量
	hoursByTA := make(map[string]int)
	courseTAIDByName := make(map[string]string) // 该课程在册 TA: name → ID
	courseSet := make(map[string]bool)          // 该课程在册 TA ID 集合
	courseItemHours := make(map[string]int)     // 该课程在册 TA ID → 明细工时
	for i := range assignment.Items {
		item := &assignment.Items[i]
		hoursByTA[item.TAID] += item.Hours
		if item.CourseID == course.CourseID && item.TA != nil {
			courseTAIDByName[item.TA.Name] = item.TAID
			courseSet[item.TAID] = true
			courseItemHours[item.TAID] = item.Hours
		}
	}
	tracker := engine.FromItems(s.cfg.Assign.HoursPerCourse, hoursByTA)

	// ── 阶段2: 校验移除 ──

	removeIDs := make([]string, 0, len(req.RemoveTAs))
	removedSet := make(map[string]bool)
	for _, name := range req.RemoveTAs {
		id, ok := courseTAIDByName[name]
		if !ok || removedSet[id] {
			return nil, fmt.Errorf("%w: %s → %s", ErrOverrideNotAssigned, name, req.CourseCode)
		}
		removeIDs = append(removeIDs, id)
		removedSet[id] = true
		tracker.ReleaseHours(id, courseItemHours[id])
	}

	// ── 阶段3: 校验添加 ──

	addTAs, err := s.repo.TA.ListByNames(ctx, req.AddTAs)
	if err != nil {
		s.logger.Error("查询待添加 TA 失败", zap.Error(err))
		return nil, err
	}
	taByName := make(map[string]*model.TA, len(addTAs))
	for i := range addTAs {
		taByName[addTAs[i].Name] = &addTAs[i]
	}

	validator := engine.NewValidator(s.cfg.Assign.HoursPerCourse)
	engCourse := &engine.Course{ID: course.CourseID, Code: course.Code, RequestedTAs: course.RequestedTAs}
	finalCount := len(courseSet) - len(removeIDs)

	addItems := make([]model.AssignmentItem, 0, len(req.AddTAs))
	addedSet := make(map[string]bool)
	for _, name := range req.AddTAs {
		ta, ok := taByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTANotFound, name)
		}
		if (courseSet[ta.TAID] && !removedSet[ta.TAID]) || addedSet[ta.TAID] {
			return nil, fmt.Errorf("%w: %s → %s", ErrOverrideDuplicate, name, req.CourseCode)
		}
		engTA := &engine.TA{ID: ta.TAID, Name: ta.Name, MaxHours: ta.MaxHours}
		if err := validator.CheckAdd(engCourse, engTA, finalCount, tracker.Hours(ta.TAID)); err != nil {
			if engine.IsConstraintViolation(err, engine.ReasonCapacityExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrOverrideCapacity, req.CourseCode)
			}
			return nil, fmt.Errorf("%w: %s", ErrOverrideWorkload, name)
		}
		tracker.Commit(ta.TAID)
		addedSet[ta.TAID] = true
		finalCount++
		addItems = append(addItems, model.AssignmentItem{
			TAID:  ta.TAID,
			Hours: s.cfg.Assign.HoursPerCourse,
		})
	}

	// ── 阶段4: 原子应用 ──

	assignment.UpdatedBy = &req.Actor
	if err := s.repo.Assignment.PatchItems(ctx, assignment, course.CourseID, removeIDs, addItems); err != nil {
		s.logger.Error("应用覆盖失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Override.Create(ctx, &model.OverrideRecord{
		AssignmentID: assignment.AssignmentID,
		CourseID:     course.CourseID,
		RemovedTAs:   model.StringArray(req.RemoveTAs),
		AddedTAs:     model.StringArray(req.AddTAs),
		Actor:        req.Actor,
	}); err != nil {
		s.logger.Error("写入覆盖审计失败", zap.Error(err))
		return nil, err
	}

	_ = s.repo.ActivityLog.Create(ctx, &model.ActivityLog{
		Action: fmt.Sprintf("覆盖课程 %s: 移除 %d 名、添加 %d 名 TA", req.CourseCode, len(removeIDs), len(addItems)),
		Actor:  req.Actor,
		Level:  "info",
	})

	s.invalidateCache(ctx, term.TermID)

	s.logger.Info("覆盖已应用",
		zap.String("course", req.CourseCode),
		zap.Strings("removed", req.RemoveTAs),
		zap.Strings("added", req.AddTAs),
		zap.String("actor", req.Actor))

	// 重新加载最新视图
	fresh, err := s.repo.Assignment.GetCurrentByTerm(ctx, term.TermID)
	if err != nil {
		s.logger.Error("回读分配结果失败", zap.Error(err))
		return nil, err
	}
	return buildAssignmentsView(fresh), nil
}

// ListOverrides 分页获取覆盖审计记录（按时间倒序）
func (s *assignmentService) ListOverrides(ctx context.Context, req *dto.OverrideListRequest) ([]dto.OverrideRecordResponse, int64, error) {
	term, err := s.resolveTerm(ctx, req.TermID)
	if err != nil {
		return nil, 0, err
	}

	assignment, err := s.repo.Assignment.GetCurrentByTerm(ctx, term.TermID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNoCurrentAssignment
		}
		s.logger.Error("查询当前分配失败", zap.Error(err))
		return nil, 0, err
	}

	records, total, err := s.repo.Override.ListByAssignment(ctx, assignment.AssignmentID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询覆盖记录失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.OverrideRecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		code := ""
		if r.Course != nil {
			code = r.Course.Code
		}
		out = append(out, dto.OverrideRecordResponse{
			ID:         r.OverrideID,
			CourseCode: code,
			RemovedTAs: []string(r.RemovedTAs),
			AddedTAs:   []string(r.AddedTAs),
			Actor:      r.Actor,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, total, nil
}

// ── 辅助函数 ──

func (s *assignmentService) invalidateCache(ctx context.Context, termID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAssignments(ctx, termID); err != nil {
		s.logger.Warn("分配缓存失效失败", zap.Error(err))
	}
}

// buildDataset 将持久化模型映射为求解输入快照
func buildDataset(courses []model.Course, tas []model.TA, professors []model.Professor) *engine.Dataset {
	data := &engine.Dataset{
		Courses:    make([]engine.Course, 0, len(courses)),
		TAs:        make([]engine.TA, 0, len(tas)),
		Professors: make([]engine.Professor, 0, len(professors)),
	}

	for i := range courses {
		c := &courses[i]
		profIDs := make([]string, 0, len(c.Professors))
		for j := range c.Professors {
			profIDs = append(profIDs, c.Professors[j].ProfessorID)
		}
		data.Courses = append(data.Courses, engine.Course{
			ID:           c.CourseID,
			Code:         c.Code,
			RequestedTAs: c.RequestedTAs,
			Skills:       []string(c.Skills),
			ProfessorIDs: profIDs,
		})
	}

	for i := range tas {
		t := &tas[i]
		prefProfs := make([]string, 0, len(t.PreferredProfessors))
		for j := range t.PreferredProfessors {
			prefProfs = append(prefProfs, t.PreferredProfessors[j].ProfessorID)
		}
		interests := make(map[string]string, len(t.CourseInterests))
		for j := range t.CourseInterests {
			ci := &t.CourseInterests[j]
			if ci.Course != nil {
				interests[ci.Course.Code] = ci.Level
			}
		}
		data.TAs = append(data.TAs, engine.TA{
			ID:                  t.TAID,
			Name:                t.Name,
			MaxHours:            t.MaxHours,
			Skills:              []string(t.Skills),
			PreferredProfessors: prefProfs,
			CourseInterests:     interests,
		})
	}

	for i := range professors {
		p := &professors[i]
		prefTAs := make([]string, 0, len(p.PreferredTAs))
		for j := range p.PreferredTAs {
			prefTAs = append(prefTAs, p.PreferredTAs[j].TAID)
		}
		data.Professors = append(data.Professors, engine.Professor{
			ID:           p.ProfessorID,
			Name:         p.Name,
			PreferredTAs: prefTAs,
		})
	}

	return data
}

// buildAssignmentsView 构建「课程 → (教授, TA)」视图与「TA → 工时」账目
func buildAssignmentsView(assignment *model.Assignment) *dto.AssignmentsResponse {
	entries := make(map[string]dto.CourseAssignmentEntry)
	workloads := make(map[string]int)

	for i := range assignment.Items {
		item := &assignment.Items[i]
		if item.Course == nil || item.TA == nil {
			continue
		}
		code := item.Course.Code

		entry, ok := entries[code]
		if !ok {
			profs := make([]string, 0, len(item.Course.Professors))
			for j := range item.Course.Professors {
				profs = append(profs, item.Course.Professors[j].Name)
			}
			entry = dto.CourseAssignmentEntry{Professors: profs, TAs: []string{}}
		}
		entry.TAs = append(entry.TAs, item.TA.Name)
		entries[code] = entry

		workloads[item.TA.Name] += item.Hours
	}

	return &dto.AssignmentsResponse{
		AssignmentID: assignment.AssignmentID,
		TermID:       assignment.TermID,
		Assignments:  entries,
		Workloads:    workloads,
		UpdatedAt:    assignment.UpdatedAt.Format(time.RFC3339),
	}
}
