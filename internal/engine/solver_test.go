package engine

import (
	"errors"
	"reflect"
	"testing"
)

// solverDataset 两门课、三名 TA 的基础输入
func solverDataset() *Dataset {
	return &Dataset{
		Courses: []Course{
			{ID: "c-302", Code: "COMP302", RequestedTAs: 2, Skills: []string{"Python", "Systems"}, ProfessorIDs: []string{"p-1"}},
			{ID: "c-250", Code: "COMP250", RequestedTAs: 1, Skills: []string{"Java"}, ProfessorIDs: []string{"p-2"}},
		},
		TAs: []TA{
			{ID: "t-a", Name: "A", MaxHours: 20, Skills: []string{"Python"}},
			{ID: "t-b", Name: "B", MaxHours: 10, Skills: []string{"Python", "Systems"}},
			{ID: "t-c", Name: "C", MaxHours: 10, Skills: []string{"Java"}},
		},
		Professors: []Professor{
			{ID: "p-1", Name: "王教授"},
			{ID: "p-2", Name: "陈教授"},
		},
	}
}

var skillOnly = WeightVector{Skill: 1}

func TestSolve_SkillPriority(t *testing.T) {
	solver := NewSolver(5, 0)

	result, err := solver.Solve(solverDataset(), skillOnly)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	// COMP302: B 技能全命中先入，A 次之
	got := result.Assignments["c-302"]
	want := []string{"t-b", "t-a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("COMP302 期望 %v，实际 %v", want, got)
	}
	// COMP250: C 唯一命中 Java
	if got := result.Assignments["c-250"]; !reflect.DeepEqual(got, []string{"t-c"}) {
		t.Errorf("COMP250 期望 [t-c]，实际 %v", got)
	}
}

func TestSolve_WorkloadCapSkipsTA(t *testing.T) {
	// B 剩余工时不足一门课的成本时被跳过，仅 A 入选
	data := solverDataset()
	data.TAs[1].MaxHours = 2 // < hoursPerCourse

	solver := NewSolver(5, 0)
	result, err := solver.Solve(data, skillOnly)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	for _, taID := range result.Assignments["c-302"] {
		if taID == "t-b" {
			t.Error("工时不足的 TA 不应入选")
		}
	}
	if result.Workloads["t-b"] != 0 {
		t.Errorf("t-b 工时应为 0，实际 %d", result.Workloads["t-b"])
	}
	// 缺口应以告警形式浮出
	if len(result.Warnings) == 0 {
		t.Error("存在缺口时应产生告警")
	}
}

func TestSolve_Deterministic(t *testing.T) {
	solver := NewSolver(5, 0)
	weights := WeightVector{Skill: 0.4, FacultyPref: 0.2, TAPref: 0.2, WorkloadBalance: 0.2}

	first, err := solver.Solve(solverDataset(), weights)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	// 相同输入重复求解
	second, err := solver.Solve(solverDataset(), weights)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}
	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Errorf("相同输入应产出相同结果: %v != %v", first.Assignments, second.Assignments)
	}

	// 输入存储顺序打乱后结果不变
	shuffled := solverDataset()
	shuffled.Courses[0], shuffled.Courses[1] = shuffled.Courses[1], shuffled.Courses[0]
	shuffled.TAs[0], shuffled.TAs[2] = shuffled.TAs[2], shuffled.TAs[0]
	third, err := solver.Solve(shuffled, weights)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}
	if !reflect.DeepEqual(first.Assignments, third.Assignments) {
		t.Errorf("输入顺序不应影响结果: %v != %v", first.Assignments, third.Assignments)
	}
}

func TestSolve_CapacityAndWorkloadInvariants(t *testing.T) {
	data := &Dataset{
		Courses: []Course{
			{ID: "c-1", Code: "COMP101", RequestedTAs: 1, Skills: []string{"Python"}},
			{ID: "c-2", Code: "COMP102", RequestedTAs: 2, Skills: []string{"Python"}},
			{ID: "c-3", Code: "COMP103", RequestedTAs: 3, Skills: []string{"Python"}},
		},
		TAs: []TA{
			{ID: "t-1", Name: "甲", MaxHours: 10, Skills: []string{"Python"}},
			{ID: "t-2", Name: "乙", MaxHours: 5, Skills: []string{"Python"}},
			{ID: "t-3", Name: "丙", MaxHours: 15, Skills: []string{"Python"}},
		},
	}

	const hoursPerCourse = 5
	solver := NewSolver(hoursPerCourse, 0)
	result, err := solver.Solve(data, WeightVector{Skill: 1, WorkloadBalance: 1})
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	requested := map[string]int{"c-1": 1, "c-2": 2, "c-3": 3}
	for courseID, taIDs := range result.Assignments {
		if len(taIDs) > requested[courseID] {
			t.Errorf("课程 %s 超出容量: %d > %d", courseID, len(taIDs), requested[courseID])
		}
	}

	maxHours := map[string]int{"t-1": 10, "t-2": 5, "t-3": 15}
	for taID, hours := range result.Workloads {
		if hours > maxHours[taID] {
			t.Errorf("TA %s 超出工时上限: %d > %d", taID, hours, maxHours[taID])
		}
	}
}

func TestSolve_AllZeroWeightsFatal(t *testing.T) {
	solver := NewSolver(5, 0)

	_, err := solver.Solve(solverDataset(), WeightVector{})
	var infeasible *InfeasibleInputError
	if !errors.As(err, &infeasible) {
		t.Fatalf("全零权重应返回 InfeasibleInputError，实际: %v", err)
	}
}

func TestSolve_NegativeWeightFatal(t *testing.T) {
	solver := NewSolver(5, 0)

	_, err := solver.Solve(solverDataset(), WeightVector{Skill: 1, TAPref: -0.5})
	var infeasible *InfeasibleInputError
	if !errors.As(err, &infeasible) {
		t.Fatalf("负权重应返回 InfeasibleInputError，实际: %v", err)
	}
}

func TestSolve_SkipsMalformedRecords(t *testing.T) {
	data := solverDataset()
	data.Courses = append(data.Courses, Course{ID: "c-bad", Code: "", RequestedTAs: 1})
	data.TAs = append(data.TAs, TA{ID: "t-bad", Name: "无效", MaxHours: 0})

	solver := NewSolver(5, 0)
	result, err := solver.Solve(data, skillOnly)
	if err != nil {
		t.Fatalf("个别畸形记录不应中断求解: %v", err)
	}

	if _, ok := result.Assignments["c-bad"]; ok {
		t.Error("无代码课程不应出现在结果中")
	}
	if result.Workloads["t-bad"] != 0 {
		t.Error("无效 TA 不应获得分配")
	}
	if len(result.Warnings) < 2 {
		t.Errorf("每条被跳过的记录都应产生告警，实际: %v", result.Warnings)
	}
}

func TestSolve_ProfessorCapRelaxedOnGap(t *testing.T) {
	// 同一教授两门课，唯一 TA 可承接两门；上限 1 时第一轮只分一门，
	// 存在缺口则放宽上限补齐第二门
	data := &Dataset{
		Courses: []Course{
			{ID: "c-1", Code: "COMP201", RequestedTAs: 1, Skills: []string{"Go"}, ProfessorIDs: []string{"p-1"}},
			{ID: "c-2", Code: "COMP202", RequestedTAs: 1, Skills: []string{"Go"}, ProfessorIDs: []string{"p-1"}},
		},
		TAs: []TA{
			{ID: "t-1", Name: "甲", MaxHours: 10, Skills: []string{"Go"}},
		},
		Professors: []Professor{{ID: "p-1", Name: "王教授"}},
	}

	solver := NewSolver(5, 1)
	result, err := solver.Solve(data, skillOnly)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	if len(result.Assignments["c-1"]) != 1 || len(result.Assignments["c-2"]) != 1 {
		t.Errorf("放宽后两门课都应补齐，实际: %v", result.Assignments)
	}
	if result.Workloads["t-1"] != 10 {
		t.Errorf("t-1 工时期望 10，实际 %d", result.Workloads["t-1"])
	}
}

func TestSolve_ProfessorCapHolds(t *testing.T) {
	// 另有可用 TA 时上限不放宽：第二门课应换人
	data := &Dataset{
		Courses: []Course{
			{ID: "c-1", Code: "COMP201", RequestedTAs: 1, Skills: []string{"Go"}, ProfessorIDs: []string{"p-1"}},
			{ID: "c-2", Code: "COMP202", RequestedTAs: 1, Skills: []string{"Go"}, ProfessorIDs: []string{"p-1"}},
		},
		TAs: []TA{
			{ID: "t-1", Name: "甲", MaxHours: 20, Skills: []string{"Go"}},
			{ID: "t-2", Name: "乙", MaxHours: 20, Skills: []string{"Go"}},
		},
		Professors: []Professor{{ID: "p-1", Name: "王教授"}},
	}

	solver := NewSolver(5, 1)
	result, err := solver.Solve(data, skillOnly)
	if err != nil {
		t.Fatalf("Solve 应成功: %v", err)
	}

	seen := make(map[string]int)
	for _, taIDs := range result.Assignments {
		for _, id := range taIDs {
			seen[id]++
		}
	}
	if seen["t-1"] != 1 || seen["t-2"] != 1 {
		t.Errorf("同教授上限生效时两门课应分给不同 TA，实际: %v", result.Assignments)
	}
}
