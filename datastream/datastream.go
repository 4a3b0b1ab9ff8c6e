package datastream

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator 定義 (score, member) 工作負載產生器的介面
type Generator interface {
	// N 回傳成員全域的大小
	N() int
	// Next 依存取分布抽出一個成員索引 (0~n-1)
	Next() int
	// ScoreOf 回傳成員的固定分數
	ScoreOf(idx int) float64
	// Weights 回傳各成員的存取機率
	Weights() []float64
	// Entropy 回傳存取分布的熵
	Entropy() float64
}

// MemberKey 由成員索引產生 member 字串
func MemberKey(idx int) string {
	return fmt.Sprintf("m%06d", idx)
}

// OperationType 表示操作種類
type OperationType uint8

const (
	OpInsert OperationType = iota
	OpSearch
	OpDelete
	OpRank
)

func (t OperationType) String() string {
	switch t {
	case OpInsert:
		return "Insert"
	case OpSearch:
		return "Search"
	case OpDelete:
		return "Delete"
	case OpRank:
		return "Rank"
	default:
		return "Unknown"
	}
}

// Operation 表示一筆對跳表的操作。
// Rank 操作表示以 (Score, Member) 反查排名。
type Operation struct {
	Type   OperationType
	Score  float64
	Member string
}

// opRecord 以成員索引表示的內部操作紀錄，供檔案序列化使用
type opRecord struct {
	Type OperationType
	Idx  int
}

// generateOpRecords 依分布產生 k 筆操作。
// 規則：
//   - 成員首次出現（或剛被刪除後再出現）時輸出 Insert
//   - 其餘依 deleteRatio 輸出 Delete（並標記為不存在）、
//     依 rankRatio 輸出 Rank，剩下的為 Search
func generateOpRecords(g Generator, k int, deleteRatio, rankRatio float64, rng *rand.Rand) []opRecord {
	ops := make([]opRecord, 0, k)
	present := make(map[int]bool, g.N())

	for i := 0; i < k; i++ {
		idx := g.Next()
		if !present[idx] {
			ops = append(ops, opRecord{Type: OpInsert, Idx: idx})
			present[idx] = true
			continue
		}

		r := rng.Float64()
		switch {
		case r < deleteRatio:
			ops = append(ops, opRecord{Type: OpDelete, Idx: idx})
			present[idx] = false
		case r < deleteRatio+rankRatio:
			ops = append(ops, opRecord{Type: OpRank, Idx: idx})
		default:
			ops = append(ops, opRecord{Type: OpSearch, Idx: idx})
		}
	}
	return ops
}

// GenerateOps 依分布產生 k 筆可直接重播的操作序列，
// seed 控制操作種類的抽樣，與產生器本身的種子互相獨立
func GenerateOps(g Generator, k int, deleteRatio, rankRatio float64, seed int64) []Operation {
	rng := rand.New(rand.NewSource(seed))
	records := generateOpRecords(g, k, deleteRatio, rankRatio, rng)

	ops := make([]Operation, len(records))
	for i, rec := range records {
		ops[i] = Operation{
			Type:   rec.Type,
			Score:  g.ScoreOf(rec.Idx),
			Member: MemberKey(rec.Idx),
		}
	}
	return ops
}

// SequenceModel 以既有的 Operation 序列提供順序重播
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModelFromOps 由外部供給的操作序列建立模型
func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next 回傳下一筆操作，若結束則回傳零值與 false
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// NextN 回傳接下來 n 筆（或直到結束）的操作
func (m *SequenceModel) NextN(n int) []Operation {
	if n <= 0 || m.pos >= len(m.ops) {
		return nil
	}
	end := m.pos + n
	if end > len(m.ops) {
		end = len(m.ops)
	}
	out := m.ops[m.pos:end]
	m.pos = end
	// 回傳淺拷貝避免外部修改底層切片
	cp := make([]Operation, len(out))
	copy(cp, out)
	return cp
}

// Reset 游標重置到起點
func (m *SequenceModel) Reset() { m.pos = 0 }

// entropyOf 由機率分布計算熵
func entropyOf(weights []float64) float64 {
	h := 0.0
	for _, p := range weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// randomScores 為每個成員抽出固定分數，範圍 [0, 1000)
func randomScores(n int, rng *rand.Rand) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = rng.Float64() * 1000.0
	}
	return scores
}
