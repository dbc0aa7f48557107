package engine

// 兼容性评分：四个 [0,1] 子分按权重加权求和，再除以权重总和。
// 纯函数，无副作用；相同输入必得相同输出。

// interestToScore 课程兴趣等级映射
func interestToScore(level string) float64 {
	switch level {
	case "High":
		return 1.0
	case "Medium":
		return 0.5
	case "Low":
		return 0.0
	default:
		// 未填写视为弱中性信号
		return 0.25
	}
}

// clamp01 截断到 [0,1]
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// skillScore 技能匹配子分 = |TA技能 ∩ 课程技能| / max(1, |课程技能|)
func skillScore(idx *index, ta *TA, course *Course) float64 {
	taSkills := idx.taSkills[ta.ID]
	matched := 0
	for _, s := range course.Skills {
		if taSkills[s] {
			matched++
		}
	}
	denom := len(course.Skills)
	if denom < 1 {
		denom = 1
	}
	return float64(matched) / float64(denom)
}

// facultyPrefScore 教授偏好子分：课程任一教授的偏好名单包含该 TA 则为 1
func facultyPrefScore(idx *index, ta *TA, course *Course) float64 {
	for _, pid := range course.ProfessorIDs {
		if idx.profPrefTAs[pid][ta.ID] {
			return 1.0
		}
	}
	return 0.0
}

// taPrefScore TA 偏好子分：教授匹配信号与课程兴趣信号各占一半
func taPrefScore(idx *index, ta *TA, course *Course) float64 {
	profMatch := 0.0
	prefs := idx.taPrefProfs[ta.ID]
	for _, pid := range course.ProfessorIDs {
		if prefs[pid] {
			profMatch = 1.0
			break
		}
	}
	interest := interestToScore(ta.CourseInterests[course.Code])
	return 0.5*profMatch + 0.5*interest
}

// workloadScore 工时均衡子分 = 1 - 当前工时/上限，截断到 [0,1]（偏向低负载 TA）
func workloadScore(ta *TA, currentHours int) float64 {
	if ta.MaxHours <= 0 {
		return 0.0
	}
	return clamp01(1.0 - float64(currentHours)/float64(ta.MaxHours))
}

// score 计算 (TA, 课程) 配对的兼容性得分。
// currentHours 为该 TA 当前已分配工时快照，用于工时均衡惩罚。
func score(ta *TA, course *Course, idx *index, weights WeightVector, currentHours int) float64 {
	sum := weights.Sum()
	if sum == 0 {
		return 0.0
	}
	total := weights.Skill*skillScore(idx, ta, course) +
		weights.FacultyPref*facultyPrefScore(idx, ta, course) +
		weights.TAPref*taPrefScore(idx, ta, course) +
		weights.WorkloadBalance*workloadScore(ta, currentHours)
	return total / sum
}
