// Package analy 提供跳表結構的檢視與驗證工具：
// 逐層列印、層級統計、搜尋步數量測與完整的結構稽核。
package analy

import (
	"fmt"
	"io"
	"os"

	"github.com/soukon/zskiplist-go/zskiplist"
)

// FprintSkipList 將跳表結構逐層寫到 w，
// 每個節點以 member:score(span) 呈現，最多列出 maxNodes 個節點
func FprintSkipList(w io.Writer, sl *zskiplist.SkipList, maxLevel, maxNodes int) {
	if sl.IsEmpty() {
		fmt.Fprintln(w, "skip list is empty")
		return
	}

	if maxLevel > sl.Level() {
		maxLevel = sl.Level()
	}

	fmt.Fprintf(w, "skip list (length=%d, level=%d):\n", sl.Length(), sl.Level())
	for i := maxLevel - 1; i >= 0; i-- {
		fmt.Fprintf(w, "level %2d: ", i)
		count := 0
		for nd := sl.Head().NextAt(i); nd != nil && count < maxNodes; nd = nd.NextAt(i) {
			fmt.Fprintf(w, "%s:%.1f(span=%d) -> ", nd.Member(), nd.Score(), nd.SpanAt(i))
			count++
		}
		fmt.Fprintln(w, "NULL")
	}
}

// PrintSkipList 將跳表結構列印到標準輸出
func PrintSkipList(sl *zskiplist.SkipList, maxLevel, maxNodes int) {
	FprintSkipList(os.Stdout, sl, maxLevel, maxNodes)
}

// CountLevel 統計每一層的節點數量，索引 0 為底層
func CountLevel(sl *zskiplist.SkipList) []int {
	counts := make([]int, sl.Level())
	for nd := sl.GetFirst(); nd != nil; nd = nd.Next() {
		h := nd.Height()
		if h > len(counts) {
			h = len(counts)
		}
		for i := 0; i < h; i++ {
			counts[i]++
		}
	}
	return counts
}

// FindStep 計算搜尋 (score, member) 的總步數與各層步數，
// 向下移動也計為一步
func FindStep(sl *zskiplist.SkipList, score float64, member string) (int, []int) {
	steps := make([]int, sl.Level())
	total := 0

	x := sl.Head()
	for i := sl.Level() - 1; i >= 0; i-- {
		for next := x.NextAt(i); next != nil; next = x.NextAt(i) {
			if next.Score() > score || (next.Score() == score && next.Member() >= member) {
				break
			}
			x = next
			steps[i]++
			total++
		}
		if next := x.NextAt(i); next != nil &&
			next.Score() == score && next.Member() == member {
			steps[i]++
			total++
			return total, steps
		}
		if i > 0 {
			total++ // 向下一層
		}
	}
	return total, steps
}

// CheckStruct 稽核跳表結構是否自洽：
// 底層 (score, member) 升冪、各層 span 等於實際底層跳躍數、
// 後退指標與 tail 正確、length 與節點數一致、頂層不為空鏈。
// 發現異常時列印明細並回傳 false。
func CheckStruct(sl *zskiplist.SkipList) bool {
	ok := true

	// 底層位置表，head 為 0
	pos := map[*zskiplist.Node]int64{sl.Head(): 0}
	var count int64
	var prev *zskiplist.Node
	for nd := sl.GetFirst(); nd != nil; nd = nd.Next() {
		count++
		pos[nd] = count

		if prev != nil {
			if nd.Score() < prev.Score() ||
				(nd.Score() == prev.Score() && nd.Member() <= prev.Member()) {
				fmt.Printf("ordering violated before %s:%v\n", nd.Member(), nd.Score())
				ok = false
			}
		}
		if nd.Backward() != prev {
			fmt.Printf("backward link broken at %s:%v\n", nd.Member(), nd.Score())
			ok = false
		}
		prev = nd
	}

	if count != sl.Length() {
		fmt.Printf("length mismatch: counted %d, recorded %d\n", count, sl.Length())
		ok = false
	}
	if sl.GetLast() != prev {
		fmt.Println("tail does not point at the last node")
		ok = false
	}
	if sl.Level() > 1 && sl.Head().NextAt(sl.Level()-1) == nil {
		fmt.Printf("top level %d is empty, level should have shrunk\n", sl.Level()-1)
		ok = false
	}

	for i := 0; i < sl.Level(); i++ {
		for nd := sl.Head(); nd != nil; nd = nd.NextAt(i) {
			fwd := nd.NextAt(i)
			if fwd == nil {
				break
			}
			if want := pos[fwd] - pos[nd]; nd.SpanAt(i) != want {
				fmt.Printf("span mismatch at level %d before %s: got %d, want %d\n",
					i, fwd.Member(), nd.SpanAt(i), want)
				ok = false
			}
		}
	}

	return ok
}
