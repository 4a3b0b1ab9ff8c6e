// Package sortedset 以 member→score 字典加上跳表實現 Redis ZSET 語義：
// 字典提供 O(1) 的分數查詢，跳表提供排序、排名與範圍查詢。
package sortedset

import (
	"github.com/soukon/zskiplist-go/zskiplist"
)

// Element 對外的元素抽象
type Element struct {
	Member string
	Score  float64
}

// SortedSet 單一擁有者使用的有序集合，不做內部同步
type SortedSet struct {
	dict map[string]float64
	skl  *zskiplist.SkipList
}

// New 建立空的有序集合
func New() *SortedSet {
	return &SortedSet{
		dict: make(map[string]float64),
		skl:  zskiplist.New(),
	}
}

// NewWithSeed 建立空的有序集合並指定跳表隨機種子
func NewWithSeed(seed int64) *SortedSet {
	return &SortedSet{
		dict: make(map[string]float64),
		skl:  zskiplist.NewWithSeed(seed),
	}
}

// Add 新增或改寫成員的分數，成員原本不存在時回傳 true。
// 改分數時節點會重新插入到新的排序位置。
func (s *SortedSet) Add(member string, score float64) bool {
	old, existed := s.dict[member]
	if existed {
		if old == score {
			return false
		}
		s.skl.Delete(old, member)
	}
	s.skl.Insert(score, member)
	s.dict[member] = score
	return !existed
}

// IncrBy 對成員分數加上 delta（可為負），回傳新的分數。
// 成員不存在時視為由 0 起算。
func (s *SortedSet) IncrBy(member string, delta float64) float64 {
	score := s.dict[member] + delta
	s.Add(member, score)
	return score
}

// Remove 移除成員，成員不存在時回傳 false
func (s *SortedSet) Remove(member string) bool {
	score, ok := s.dict[member]
	if !ok {
		return false
	}
	s.skl.Delete(score, member)
	delete(s.dict, member)
	return true
}

// Score 查詢成員分數
func (s *SortedSet) Score(member string) (float64, bool) {
	score, ok := s.dict[member]
	return score, ok
}

// Contains 回傳成員是否存在
func (s *SortedSet) Contains(member string) bool {
	_, ok := s.dict[member]
	return ok
}

// Len 回傳成員數量
func (s *SortedSet) Len() int64 {
	return s.skl.Length()
}

// Rank 回傳成員的升冪排名（由 1 起算），不存在時回傳 0
func (s *SortedSet) Rank(member string) int64 {
	score, ok := s.dict[member]
	if !ok {
		return 0
	}
	return s.skl.Rank(score, member)
}

// RevRank 回傳成員的降冪排名（由 1 起算），不存在時回傳 0
func (s *SortedSet) RevRank(member string) int64 {
	rank := s.Rank(member)
	if rank == 0 {
		return 0
	}
	return s.skl.Length() - rank + 1
}

// GetByRank 取得指定升冪排名的元素（由 1 起算）
func (s *SortedSet) GetByRank(rank int64) (Element, bool) {
	nd := s.skl.GetByRank(rank)
	if nd == nil {
		return Element{}, false
	}
	return Element{Member: nd.Member(), Score: nd.Score()}, true
}

// RangeByRank 取得升冪排名在 [start, stop] 的元素（由 1 起算，閉區間）。
// 超出範圍的部分會被截到 [1, Len]，區間無效時回傳空 slice。
func (s *SortedSet) RangeByRank(start, stop int64) []Element {
	if start < 1 {
		start = 1
	}
	if stop > s.skl.Length() {
		stop = s.skl.Length()
	}
	if start > stop {
		return []Element{}
	}

	result := make([]Element, 0, stop-start+1)
	nd := s.skl.GetByRank(start)
	for r := start; r <= stop && nd != nil; r++ {
		result = append(result, Element{Member: nd.Member(), Score: nd.Score()})
		nd = nd.Next()
	}
	return result
}

// TopN 取得分數最高的前 n 個元素，分數由高到低排列
func (s *SortedSet) TopN(n int) []Element {
	if n <= 0 {
		return []Element{}
	}

	result := make([]Element, 0, n)
	// 由尾端沿後退指標走訪即為降冪
	for nd := s.skl.GetLast(); nd != nil && len(result) < n; nd = nd.Backward() {
		result = append(result, Element{Member: nd.Member(), Score: nd.Score()})
	}
	return result
}

// RangeByScore 取得分數落在 [min, max] 的元素，升冪排列
func (s *SortedSet) RangeByScore(min, max float64) []Element {
	nodes := s.skl.GetByScoreRange(min, max)
	result := make([]Element, 0, len(nodes))
	for _, nd := range nodes {
		result = append(result, Element{Member: nd.Member(), Score: nd.Score()})
	}
	return result
}
