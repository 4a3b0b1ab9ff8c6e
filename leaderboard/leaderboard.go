// Package leaderboard 在 sortedset 之上提供排行榜服務：
// 即時更新分數、查詢排名、TOP N 與分數範圍查詢，
// 並以日期後綴的榜名支援日榜、週榜、月榜。
package leaderboard

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soukon/zskiplist-go/sortedset"
)

// Entry 排行榜上的一筆名次，Rank 為降冪名次（由 1 起算）
type Entry struct {
	Rank   int64
	Member string
	Score  float64
}

// Leaderboard 管理多個具名榜單，榜單於首次寫入時建立。
// 不做內部同步，並行存取須由呼叫端序列化。
type Leaderboard struct {
	boards map[string]*sortedset.SortedSet
}

// New 建立空的排行榜服務
func New() *Leaderboard {
	return &Leaderboard{
		boards: make(map[string]*sortedset.SortedSet),
	}
}

// board 取得榜單，必要時建立
func (lb *Leaderboard) board(name string) *sortedset.SortedSet {
	s, ok := lb.boards[name]
	if !ok {
		s = sortedset.New()
		lb.boards[name] = s
		logrus.Debugf("leaderboard %q created", name)
	}
	return s
}

// AddScore 為成員加分（可為負），回傳加分後的總分
func (lb *Leaderboard) AddScore(board, member string, delta float64) float64 {
	total := lb.board(board).IncrBy(member, delta)
	logrus.Debugf("leaderboard %q: %s +%.2f => %.2f", board, member, delta, total)
	return total
}

// SetScore 直接設定成員分數，覆蓋原有分數
func (lb *Leaderboard) SetScore(board, member string, score float64) {
	lb.board(board).Add(member, score)
	logrus.Debugf("leaderboard %q: set %s = %.2f", board, member, score)
}

// GetScore 查詢成員目前分數
func (lb *Leaderboard) GetScore(board, member string) (float64, bool) {
	s, ok := lb.boards[board]
	if !ok {
		return 0, false
	}
	return s.Score(member)
}

// GetRank 查詢成員名次（分數高者名次小，由 1 起算），
// 成員或榜單不存在時回傳 0
func (lb *Leaderboard) GetRank(board, member string) int64 {
	s, ok := lb.boards[board]
	if !ok {
		return 0
	}
	return s.RevRank(member)
}

// GetTopN 取得前 n 名，依分數由高到低附上名次
func (lb *Leaderboard) GetTopN(board string, n int) []Entry {
	s, ok := lb.boards[board]
	if !ok {
		return []Entry{}
	}

	top := s.TopN(n)
	result := make([]Entry, 0, len(top))
	for i, e := range top {
		result = append(result, Entry{Rank: int64(i + 1), Member: e.Member, Score: e.Score})
	}
	logrus.Debugf("leaderboard %q: top %d returned %d entries", board, n, len(result))
	return result
}

// GetByScoreRange 取得分數落在 [min, max] 的成員，
// 依分數由高到低附上榜內名次
func (lb *Leaderboard) GetByScoreRange(board string, min, max float64) []Entry {
	s, ok := lb.boards[board]
	if !ok {
		return []Entry{}
	}

	asc := s.RangeByScore(min, max)
	result := make([]Entry, 0, len(asc))
	for i := len(asc) - 1; i >= 0; i-- {
		e := asc[i]
		result = append(result, Entry{Rank: s.RevRank(e.Member), Member: e.Member, Score: e.Score})
	}
	return result
}

// RemoveMember 自榜單移除成員
func (lb *Leaderboard) RemoveMember(board, member string) bool {
	s, ok := lb.boards[board]
	if !ok {
		return false
	}
	removed := s.Remove(member)
	if removed {
		logrus.Debugf("leaderboard %q: removed %s", board, member)
	}
	return removed
}

// Size 回傳榜單成員數，榜單不存在時為 0
func (lb *Leaderboard) Size(board string) int64 {
	s, ok := lb.boards[board]
	if !ok {
		return 0
	}
	return s.Len()
}

// Boards 回傳目前存在的榜單數量
func (lb *Leaderboard) Boards() int {
	return len(lb.boards)
}

// DailyKey 產生日榜榜名，例如 "game:daily:2026-08-30"
func DailyKey(base string, t time.Time) string {
	return fmt.Sprintf("%s:daily:%s", base, t.Format("2006-01-02"))
}

// WeeklyKey 產生週榜榜名，以 ISO 週編號為後綴
func WeeklyKey(base string, t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%s:weekly:%d-W%02d", base, year, week)
}

// MonthlyKey 產生月榜榜名
func MonthlyKey(base string, t time.Time) string {
	return fmt.Sprintf("%s:monthly:%s", base, t.Format("2006-01"))
}
