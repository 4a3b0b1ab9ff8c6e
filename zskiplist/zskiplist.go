package zskiplist

import (
	"math/rand"
	"time"
)

const (
	// MaxLevel 最大層級數，對應 Redis 的設定
	MaxLevel = 32
	// P 升層機率，每多一層需再通過一次 1/4 的擲幣
	P = 0.25
)

// SkipList 依 (score, member) 排序的跳表，對應 Redis ZSET 的底層結構。
// 透過各層的 span 可以在 O(log n) 內完成排名查詢。
// 結構本身不做同步，並行存取須由呼叫端自行序列化。
type SkipList struct {
	head   *Node
	tail   *Node
	level  int
	length int64
	rng    *rand.Rand
}

// New 建立空跳表，以目前時間作為隨機種子
func New() *SkipList {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed 建立空跳表並指定隨機種子，便於重現測試與基準
func NewWithSeed(seed int64) *SkipList {
	return &SkipList{
		head:  newNode(MaxLevel, 0, ""),
		level: 1,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// randomLevel 以截斷幾何分布產生節點層數，期望值約 1.33
func (sl *SkipList) randomLevel() int {
	lvl := 1
	for lvl < MaxLevel && sl.rng.Float64() < P {
		lvl++
	}
	return lvl
}

// precedes 判斷節點是否仍在 (score, member) 之前，
// 分數相同時以 member 的字串順序決定
func precedes(nd *Node, score float64, member string) bool {
	return nd.score < score || (nd.score == score && nd.member < member)
}

// Insert 插入 (score, member)，成功時回傳新節點。
// 若同一組 (score, member) 已存在則不做任何事並回傳 nil。
func (sl *SkipList) Insert(score float64, member string) *Node {
	var update [MaxLevel]*Node
	var rank [MaxLevel]int64

	// 由最高層往下找插入位置，沿途記錄各層前驅與累計排名
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		if i == sl.level-1 {
			rank[i] = 0
		} else {
			rank[i] = rank[i+1]
		}
		for x.level[i].forward != nil && precedes(x.level[i].forward, score, member) {
			rank[i] += x.level[i].span
			x = x.level[i].forward
		}
		update[i] = x
	}

	if next := update[0].level[0].forward; next != nil &&
		next.score == score && next.member == member {
		return nil
	}

	height := sl.randomLevel()
	if height > sl.level {
		// 新的頂層尚無節點，先讓 head 在這些層橫跨整條鏈
		for i := sl.level; i < height; i++ {
			rank[i] = 0
			update[i] = sl.head
			update[i].level[i].span = sl.length
		}
		sl.level = height
	}

	x = newNode(height, score, member)
	for i := 0; i < height; i++ {
		x.level[i].forward = update[i].level[i].forward
		update[i].level[i].forward = x

		// rank[0]-rank[i] 為 update[i] 到插入點之間已消耗的底層跳躍數
		x.level[i].span = update[i].level[i].span - (rank[0] - rank[i])
		update[i].level[i].span = rank[0] - rank[i] + 1
	}

	// 新節點未索引到的層各多出一個底層跳躍
	for i := height; i < sl.level; i++ {
		update[i].level[i].span++
	}

	if update[0] != sl.head {
		x.backward = update[0]
	}
	if x.level[0].forward != nil {
		x.level[0].forward.backward = x
	} else {
		sl.tail = x
	}

	sl.length++
	return x
}

// Delete 移除 (score, member)，找不到時回傳 false
func (sl *SkipList) Delete(score float64, member string) bool {
	var update [MaxLevel]*Node

	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil && precedes(x.level[i].forward, score, member) {
			x = x.level[i].forward
		}
		update[i] = x
	}

	x = update[0].level[0].forward
	if x == nil || x.score != score || x.member != member {
		return false
	}
	sl.deleteNode(x, &update)
	return true
}

// deleteNode 將 x 自所有層摘除並修正跨度與後退指標
func (sl *SkipList) deleteNode(x *Node, update *[MaxLevel]*Node) {
	for i := 0; i < sl.level; i++ {
		if update[i].level[i].forward == x {
			update[i].level[i].span += x.level[i].span - 1
			update[i].level[i].forward = x.level[i].forward
		} else {
			// 該層未直接索引到 x，僅少掉一個底層跳躍
			update[i].level[i].span--
		}
	}

	if x.level[0].forward != nil {
		x.level[0].forward.backward = x.backward
	} else {
		sl.tail = x.backward
	}

	for sl.level > 1 && sl.head.level[sl.level-1].forward == nil {
		sl.level--
	}
	sl.length--
}

// Search 查詢 (score, member)，找不到時回傳 nil
func (sl *SkipList) Search(score float64, member string) *Node {
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil && precedes(x.level[i].forward, score, member) {
			x = x.level[i].forward
		}
	}

	x = x.level[0].forward
	if x != nil && x.score == score && x.member == member {
		return x
	}
	return nil
}

// Rank 回傳 (score, member) 的升冪排名（由 1 起算），不存在時回傳 0
func (sl *SkipList) Rank(score float64, member string) int64 {
	var rank int64
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil &&
			(x.level[i].forward.score < score ||
				(x.level[i].forward.score == score && x.level[i].forward.member <= member)) {
			rank += x.level[i].span
			x = x.level[i].forward
		}
		if x != sl.head && x.score == score && x.member == member {
			return rank
		}
	}
	return 0
}

// GetByRank 取得指定排名的節點（由 1 起算），
// rank 不在 [1, length] 內時回傳 nil
func (sl *SkipList) GetByRank(rank int64) *Node {
	if rank <= 0 || rank > sl.length {
		return nil
	}

	var traversed int64
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil && traversed+x.level[i].span < rank {
			traversed += x.level[i].span
			x = x.level[i].forward
		}
	}

	if traversed+1 == rank && x.level[0].forward != nil {
		return x.level[0].forward
	}
	return nil
}

// GetByScoreRange 取得分數落在 [min, max] 的節點，依 (score, member) 升冪排列。
// 每次呼叫都重新走訪，無符合者時回傳空 slice。
func (sl *SkipList) GetByScoreRange(min, max float64) []*Node {
	result := make([]*Node, 0)

	// 先找到第一個分數 >= min 的節點，下界不看 member
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for x.level[i].forward != nil && x.level[i].forward.score < min {
			x = x.level[i].forward
		}
	}

	for x = x.level[0].forward; x != nil && x.score <= max; x = x.level[0].forward {
		result = append(result, x)
	}
	return result
}

// GetFirst 回傳排名最前的節點，空表時回傳 nil
func (sl *SkipList) GetFirst() *Node {
	return sl.head.level[0].forward
}

// GetLast 回傳排名最後的節點，空表時回傳 nil
func (sl *SkipList) GetLast() *Node {
	return sl.tail
}

// Length 回傳節點數量
func (sl *SkipList) Length() int64 {
	return sl.length
}

// Level 回傳目前使用中的最高層級
func (sl *SkipList) Level() int {
	return sl.level
}

// IsEmpty 回傳跳表是否為空
func (sl *SkipList) IsEmpty() bool {
	return sl.length == 0
}

// Head 回傳哨兵頭節點，供分析工具逐層走訪，不可改寫
func (sl *SkipList) Head() *Node {
	return sl.head
}
