package conflict

import "time"

// Slot 参与冲突判定的一条占用记录
type Slot struct {
	ID        string
	Interval  Interval
	CreatedAt time.Time
}

// FindOverlapping 返回 existing 中与 candidate 冲突的记录，跳过 excludeID（更新自身时使用）
func FindOverlapping(candidate Interval, existing []Slot, excludeID string) []Slot {
	var hits []Slot
	for _, s := range existing {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if candidate.Overlaps(s.Interval) {
			hits = append(hits, s)
		}
	}
	return hits
}

// FirstOverlapping 返回第一条冲突记录
func FirstOverlapping(candidate Interval, existing []Slot, excludeID string) (Slot, bool) {
	for _, s := range existing {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if candidate.Overlaps(s.Interval) {
			return s, true
		}
	}
	return Slot{}, false
}

// Pair 冲突列表中的一项：ID 与 ConflictsWith 冲突，HasPriority 表示 ID 一方优先
type Pair struct {
	ID            string
	ConflictsWith string
	HasPriority   bool
}

// PairwiseConflicts 两两比较 slots，每对冲突输出两条（双方各一条）。
// 优先级只在一对之内有意义，不具传递性。
func PairwiseConflicts(slots []Slot) []Pair {
	var pairs []Pair
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if !a.Interval.Overlaps(b.Interval) {
				continue
			}
			aFirst := HasPriority(a, b)
			pairs = append(pairs,
				Pair{ID: a.ID, ConflictsWith: b.ID, HasPriority: aFirst},
				Pair{ID: b.ID, ConflictsWith: a.ID, HasPriority: !aFirst},
			)
		}
	}
	return pairs
}

// HasPriority a 是否优先于 b：CreatedAt 更早者优先，相同则 ID 字典序小者优先
func HasPriority(a, b Slot) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
