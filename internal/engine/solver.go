package engine

import (
	"fmt"
	"sort"
)

// Solver 贪心分配求解器。
// 单次运行、确定性：相同输入与权重必产出相同结果；不追求全局最优，
// 换取可解释性与快速重跑。
type Solver struct {
	validator *Validator
	// maxPerProfessor 同一 TA 与同一教授的配对上限（0 = 不限制）。
	// 第一轮严格执行；仅当仍有课程缺口时第二轮放宽。
	maxPerProfessor int
}

// NewSolver 创建求解器
func NewSolver(hoursPerCourse, maxPerProfessor int) *Solver {
	return &Solver{
		validator:       NewValidator(hoursPerCourse),
		maxPerProfessor: maxPerProfessor,
	}
}

// ════════════════════════════════════════════════════════════
// Solve — 容量约束下的贪心最大权匹配
// ════════════════════════════════════════════════════════════
//
// 1. 输入校验：全零权重致命；个别畸形记录跳过并告警，不中断其余评分
// 2. 课程按代码、TA 按 ID 排序，保证扫描顺序与输入存储顺序无关
// 3. 反复选取得分最高的可行配对并提交；提交后该 TA 的剩余配对
//    因工时变化自动重新计分（每轮全量扫描）
// 4. 无可行配对时结束；课程缺口与未安排的 TA 作为软性告警输出

func (s *Solver) Solve(data *Dataset, weights WeightVector) (*Result, error) {
	// ── 阶段1: 输入校验 ──

	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if weights.IsZero() {
		return nil, &InfeasibleInputError{Detail: "权重向量全零，无法评分"}
	}

	var warnings []string

	courses := make([]Course, 0, len(data.Courses))
	for _, c := range data.Courses {
		if c.Code == "" {
			warnings = append(warnings, "跳过缺少课程代码的课程记录")
			continue
		}
		courses = append(courses, c)
	}
	tas := make([]TA, 0, len(data.TAs))
	for _, t := range data.TAs {
		if t.MaxHours <= 0 {
			warnings = append(warnings, fmt.Sprintf("跳过工时上限无效的 TA: %s", t.Name))
			continue
		}
		tas = append(tas, t)
	}

	// ── 阶段2: 确定性排序与索引构建 ──

	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	sort.Slice(tas, func(i, j int) bool { return tas[i].ID < tas[j].ID })

	idx := buildIndex(data)
	tracker := NewTracker(s.validator.HoursPerCourse)

	assigned := make(map[string][]string, len(courses)) // course ID → TA IDs（提交顺序）
	assignedSet := make(map[string]map[string]bool)     // course ID → TA ID 集合
	profPairCount := make(map[[2]string]int)            // (ta ID, professor ID) → 配对次数

	overCap := func(ta *TA, course *Course) bool {
		if s.maxPerProfessor <= 0 {
			return false
		}
		for _, pid := range course.ProfessorIDs {
			if profPairCount[[2]string{ta.ID, pid}] >= s.maxPerProfessor {
				return true
			}
		}
		return false
	}

	// ── 阶段3: 贪心主循环 ──
	// 扫描顺序为课程代码升序 × TA ID 升序，得分相同取先遇者，
	// 即平手按课程代码、再按 TA ID 升序裁决。

	capEnforced := s.maxPerProfessor > 0

	for {
		bestScore := -1.0
		bestCourse := -1
		bestTA := -1

		for ci := range courses {
			course := &courses[ci]
			if len(assigned[course.ID]) >= course.RequestedTAs {
				continue
			}
			for ti := range tas {
				ta := &tas[ti]
				if assignedSet[course.ID][ta.ID] {
					continue
				}
				if s.validator.CheckWorkload(ta, tracker.Hours(ta.ID)) != nil {
					continue
				}
				if capEnforced && overCap(ta, course) {
					continue
				}
				sc := score(ta, course, idx, weights, tracker.Hours(ta.ID))
				if sc > bestScore {
					bestScore = sc
					bestCourse = ci
					bestTA = ti
				}
			}
		}

		if bestCourse < 0 {
			// 第一轮无可行配对且仍有缺口时，放宽同教授上限再试一轮
			if capEnforced && hasGap(courses, assigned) {
				capEnforced = false
				continue
			}
			break
		}

		course := &courses[bestCourse]
		ta := &tas[bestTA]

		assigned[course.ID] = append(assigned[course.ID], ta.ID)
		if assignedSet[course.ID] == nil {
			assignedSet[course.ID] = make(map[string]bool)
		}
		assignedSet[course.ID][ta.ID] = true
		tracker.Commit(ta.ID)
		for _, pid := range course.ProfessorIDs {
			profPairCount[[2]string{ta.ID, pid}]++
		}
	}

	// ── 阶段4: 软性告警 ──

	for ci := range courses {
		course := &courses[ci]
		gap := course.RequestedTAs - len(assigned[course.ID])
		if gap > 0 {
			warnings = append(warnings, fmt.Sprintf("课程 %s 缺口 %d 名 TA", course.Code, gap))
		}
	}
	for ti := range tas {
		ta := &tas[ti]
		if tracker.Hours(ta.ID) == 0 {
			warnings = append(warnings, fmt.Sprintf("TA %s 未获得任何课程", ta.Name))
		}
	}

	return &Result{
		Assignments: assigned,
		Workloads:   tracker.Snapshot(),
		Warnings:    warnings,
	}, nil
}

// hasGap 是否仍有课程未满足申请数量
func hasGap(courses []Course, assigned map[string][]string) bool {
	for i := range courses {
		if len(assigned[courses[i].ID]) < courses[i].RequestedTAs {
			return true
		}
	}
	return false
}
