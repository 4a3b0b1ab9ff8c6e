package zskiplist

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	huandu "github.com/huandu/skiplist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyList(t *testing.T) {
	sl := NewWithSeed(42)

	assert.True(t, sl.IsEmpty())
	assert.EqualValues(t, 0, sl.Length())
	assert.Equal(t, 1, sl.Level())
	assert.Nil(t, sl.GetFirst())
	assert.Nil(t, sl.GetLast())
	assert.Nil(t, sl.GetByRank(1))
	assert.Nil(t, sl.Search(1.0, "nobody"))
	assert.Empty(t, sl.GetByScoreRange(0, 100))
}

func TestInsertAndSearch(t *testing.T) {
	sl := NewWithSeed(42)

	require.NotNil(t, sl.Insert(1.0, "Alice"))
	require.NotNil(t, sl.Insert(2.0, "Bob"))
	require.NotNil(t, sl.Insert(1.5, "Charlie"))
	assert.EqualValues(t, 3, sl.Length())
	assert.False(t, sl.IsEmpty())

	found := sl.Search(1.0, "Alice")
	require.NotNil(t, found)
	assert.Equal(t, 1.0, found.Score())
	assert.Equal(t, "Alice", found.Member())

	assert.Nil(t, sl.Search(3.0, "David"))
	// score 對但 member 不對，仍視為不存在
	assert.Nil(t, sl.Search(1.5, "Alice"))
}

func TestDuplicateInsert(t *testing.T) {
	sl := NewWithSeed(42)

	require.NotNil(t, sl.Insert(1.0, "Alice"))
	assert.Nil(t, sl.Insert(1.0, "Alice"))
	assert.EqualValues(t, 1, sl.Length())

	// 同分不同 member 不算重複
	require.NotNil(t, sl.Insert(1.0, "Bob"))
	assert.EqualValues(t, 2, sl.Length())
}

func TestDelete(t *testing.T) {
	sl := NewWithSeed(42)

	sl.Insert(1.0, "Alice")
	sl.Insert(2.0, "Bob")
	sl.Insert(3.0, "Charlie")

	assert.True(t, sl.Delete(2.0, "Bob"))
	assert.EqualValues(t, 2, sl.Length())
	assert.Nil(t, sl.Search(2.0, "Bob"))

	assert.False(t, sl.Delete(2.0, "Bob"))
	assert.False(t, sl.Delete(4.0, "David"))
	assert.EqualValues(t, 2, sl.Length())
}

func TestScenarioFromLeaderboard(t *testing.T) {
	sl := NewWithSeed(7)

	sl.Insert(1.0, "Alice")
	sl.Insert(2.5, "Bob")
	sl.Insert(1.8, "Charlie")
	assert.EqualValues(t, 3, sl.Length())

	second := sl.GetByRank(2)
	require.NotNil(t, second)
	assert.Equal(t, "Charlie", second.Member())
	assert.Equal(t, 1.8, second.Score())

	ranged := sl.GetByScoreRange(1.5, 3.0)
	require.Len(t, ranged, 2)
	assert.Equal(t, "Charlie", ranged[0].Member())
	assert.Equal(t, "Bob", ranged[1].Member())

	assert.True(t, sl.Delete(1.8, "Charlie"))
	assert.EqualValues(t, 2, sl.Length())
	assert.Nil(t, sl.Search(1.8, "Charlie"))
}

func TestRankQuery(t *testing.T) {
	sl := NewWithSeed(42)
	members := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	for i, m := range members {
		sl.Insert(float64((i+1)*10), m)
	}

	for i, m := range members {
		nd := sl.GetByRank(int64(i + 1))
		require.NotNil(t, nd)
		assert.Equal(t, m, nd.Member())
		assert.EqualValues(t, i+1, sl.Rank(nd.Score(), nd.Member()))
	}

	assert.Nil(t, sl.GetByRank(0))
	assert.Nil(t, sl.GetByRank(-1))
	assert.Nil(t, sl.GetByRank(6))
	assert.EqualValues(t, 0, sl.Rank(99.0, "Nobody"))
}

func TestScoreTieBreakByMember(t *testing.T) {
	sl := NewWithSeed(42)
	sl.Insert(5.0, "banana")
	sl.Insert(5.0, "apple")
	sl.Insert(5.0, "cherry")

	// 同分時依 member 字串順序排列
	assert.Equal(t, "apple", sl.GetByRank(1).Member())
	assert.Equal(t, "banana", sl.GetByRank(2).Member())
	assert.Equal(t, "cherry", sl.GetByRank(3).Member())
}

func TestScoreRange(t *testing.T) {
	sl := NewWithSeed(42)
	names := []string{"Tom", "Jerry", "Mickey", "Donald", "Goofy"}
	scores := []float64{10.0, 25.0, 18.0, 32.0, 15.0}
	for i := range names {
		sl.Insert(scores[i], names[i])
	}

	got := sl.GetByScoreRange(15.0, 30.0)
	require.Len(t, got, 3)
	assert.Equal(t, "Goofy", got[0].Member())
	assert.Equal(t, "Mickey", got[1].Member())
	assert.Equal(t, "Jerry", got[2].Member())

	assert.Empty(t, sl.GetByScoreRange(40.0, 50.0))
	assert.Empty(t, sl.GetByScoreRange(30.0, 15.0))

	// 邊界為閉區間
	edge := sl.GetByScoreRange(10.0, 10.0)
	require.Len(t, edge, 1)
	assert.Equal(t, "Tom", edge[0].Member())
}

func TestBackwardTraversal(t *testing.T) {
	sl := NewWithSeed(42)
	for i := 0; i < 10; i++ {
		sl.Insert(float64(i), fmt.Sprintf("m%02d", i))
	}

	count := 0
	var prev *Node
	for nd := sl.GetLast(); nd != nil; nd = nd.Backward() {
		if prev != nil {
			assert.True(t, nd.Score() < prev.Score())
		}
		prev = nd
		count++
	}
	assert.Equal(t, 10, count)
	assert.Equal(t, "m00", prev.Member())
}

// collectAscending 由底層走訪蒐集所有節點
func collectAscending(sl *SkipList) []*Node {
	nodes := make([]*Node, 0, sl.Length())
	for nd := sl.GetFirst(); nd != nil; nd = nd.Next() {
		nodes = append(nodes, nd)
	}
	return nodes
}

// verifySpans 檢查每一層的 span 是否等於實際的底層跳躍數
func verifySpans(t *testing.T, sl *SkipList) {
	t.Helper()

	// 底層位置：head 為 0，其後節點依序為 1..length
	pos := make(map[*Node]int64, sl.Length()+1)
	pos[sl.Head()] = 0
	for i, nd := range collectAscending(sl) {
		pos[nd] = int64(i + 1)
	}

	for i := 0; i < sl.Level(); i++ {
		for nd := sl.Head(); nd != nil; nd = nd.NextAt(i) {
			fwd := nd.NextAt(i)
			if fwd == nil {
				break
			}
			assert.Equal(t, pos[fwd]-pos[nd], nd.SpanAt(i),
				"span mismatch at level %d before %q", i, fwd.Member())
		}
	}
}

func TestRandomizedInvariants(t *testing.T) {
	const n = 5000
	sl := NewWithSeed(0xa3038)
	rnd := rand.New(rand.NewSource(0xa3038))

	type pair struct {
		score  float64
		member string
	}
	pairs := make([]pair, 0, n)
	for i := 0; i < n; i++ {
		p := pair{
			// 刻意製造大量同分以測試 tie-break
			score:  float64(rnd.Intn(n / 10)),
			member: fmt.Sprintf("m%06d", i),
		}
		pairs = append(pairs, p)
		require.NotNil(t, sl.Insert(p.score, p.member))
	}
	require.EqualValues(t, n, sl.Length())

	// 排序不變量：底層走訪必須是 (score, member) 非遞減
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score < pairs[j].score
		}
		return pairs[i].member < pairs[j].member
	})
	nodes := collectAscending(sl)
	require.Len(t, nodes, n)
	for i, nd := range nodes {
		assert.Equal(t, pairs[i].score, nd.Score())
		assert.Equal(t, pairs[i].member, nd.Member())
	}

	verifySpans(t, sl)

	// 排名一致性：GetByRank(r) 必須等於底層第 r 個節點
	for _, r := range []int64{1, 2, int64(n / 3), int64(n / 2), int64(n) - 1, int64(n)} {
		nd := sl.GetByRank(r)
		require.NotNil(t, nd, "rank %d", r)
		assert.Same(t, nodes[r-1], nd)
		assert.Equal(t, r, sl.Rank(nd.Score(), nd.Member()))
	}

	// 刪除一半後不變量仍須成立
	for i := 0; i < n; i += 2 {
		require.True(t, sl.Delete(pairs[i].score, pairs[i].member))
	}
	require.EqualValues(t, n/2, sl.Length())
	verifySpans(t, sl)

	rest := collectAscending(sl)
	for i, nd := range rest {
		assert.Equal(t, pairs[i*2+1].member, nd.Member())
		assert.Same(t, nd, sl.GetByRank(int64(i+1)))
	}
}

func TestLevelShrinkAfterDelete(t *testing.T) {
	sl := NewWithSeed(42)
	for i := 0; i < 2000; i++ {
		sl.Insert(float64(i), fmt.Sprintf("m%06d", i))
	}
	require.Greater(t, sl.Level(), 1)

	for i := 0; i < 2000; i++ {
		require.True(t, sl.Delete(float64(i), fmt.Sprintf("m%06d", i)))
	}
	assert.True(t, sl.IsEmpty())
	assert.Equal(t, 1, sl.Level())
	assert.Nil(t, sl.GetFirst())
	assert.Nil(t, sl.GetLast())
}

func generateMembers(n int) []string {
	members := make([]string, n)
	for i := range members {
		members[i] = fmt.Sprintf("m%08d", rand.Int())
	}
	return members
}

func BenchmarkZSkipListInsert(b *testing.B) {
	const n = 1_000_000
	members := generateMembers(n)
	sl := NewWithSeed(42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i % n
		sl.Insert(float64(idx%100000), members[idx])
	}
}

func BenchmarkZSkipListSearch(b *testing.B) {
	const n = 100_000
	members := generateMembers(n)
	sl := NewWithSeed(42)
	for i := 0; i < n; i++ {
		sl.Insert(float64(i%10000), members[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i % n
		sl.Search(float64(idx%10000), members[idx])
	}
}

func BenchmarkZSkipListGetByRank(b *testing.B) {
	const n = 100_000
	members := generateMembers(n)
	sl := NewWithSeed(42)
	for i := 0; i < n; i++ {
		sl.Insert(float64(i), members[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.GetByRank(int64(i%n) + 1)
	}
}

// 與 huandu/skiplist 比較，後者為不含排名功能的有序映射基準
func BenchmarkHuanduInsert(b *testing.B) {
	const n = 1_000_000
	members := generateMembers(n)
	list := huandu.New(huandu.String)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i % n
		list.Set(members[idx], float64(idx%100000))
	}
}

func BenchmarkHuanduSearch(b *testing.B) {
	const n = 100_000
	members := generateMembers(n)
	list := huandu.New(huandu.String)
	for i := 0; i < n; i++ {
		list.Set(members[i], float64(i%10000))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		list.Get(members[i%n])
	}
}
