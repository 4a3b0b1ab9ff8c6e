package datastream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "ZLBENCH1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次：
//   int64   MemberIdx
//   float64 Weight
//   float64 Score
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Insert,1=Search,2=Delete,3=Rank)
//   int64   MemberIdx
//   float64 Score

var (
	benchMagic   = [8]byte{'Z', 'L', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

// BenchFile 讀入後的工作負載：成員分布與操作序列
type BenchFile struct {
	// Dist 成員索引到存取機率
	Dist map[int64]float64
	// Scores 成員索引到固定分數
	Scores map[int64]float64
	Ops    []Operation
}

// ToSequenceModel 轉成可順序重播的模型
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	return NewSequenceModelFromOps(bf.Ops)
}

// Entropy 回傳存取分布的熵
func (bf *BenchFile) Entropy() float64 {
	weights := make([]float64, 0, len(bf.Dist))
	for _, w := range bf.Dist {
		weights = append(weights, w)
	}
	return entropyOf(weights)
}

// WriteBenchFile 以產生器產生 k 筆操作並寫入 bin 檔。
// 操作規則同 GenerateOps：首次出現為 Insert，
// 其餘依 deleteRatio / rankRatio 分配 Delete / Rank，剩下為 Search。
func WriteBenchFile(g Generator, k int, deleteRatio, rankRatio float64, seed int64, filename string) error {
	if g == nil {
		return errors.New("nil generator")
	}
	if k < 0 {
		return fmt.Errorf("invalid k: %d", k)
	}
	if deleteRatio < 0 || rankRatio < 0 || deleteRatio+rankRatio > 1 {
		return fmt.Errorf("invalid ratios: delete=%v rank=%v", deleteRatio, rankRatio)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	// Header
	if _, err := file.Write(benchMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, benchVersion); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint16(0)); err != nil { // reserved
		return err
	}

	// 分布表（依索引升冪輸出，確保可重現）
	weights := g.Weights()
	idxs := make([]int, len(weights))
	for i := range idxs {
		idxs[i] = i
	}
	sort.Ints(idxs)

	if err := binary.Write(file, binary.LittleEndian, uint32(len(idxs))); err != nil {
		return err
	}
	for _, i := range idxs {
		if err := binary.Write(file, binary.LittleEndian, int64(i)); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, weights[i]); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, g.ScoreOf(i)); err != nil {
			return err
		}
	}

	// 操作序列
	rng := rand.New(rand.NewSource(seed))
	records := generateOpRecords(g, k, deleteRatio, rankRatio, rng)
	if err := binary.Write(file, binary.LittleEndian, uint64(len(records))); err != nil {
		return err
	}
	for _, rec := range records {
		if err := binary.Write(file, binary.LittleEndian, uint8(rec.Type)); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, int64(rec.Idx)); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, g.ScoreOf(rec.Idx)); err != nil {
			return err
		}
	}

	return nil
}

// ReadBenchFile 讀入 bin 檔並還原工作負載
func ReadBenchFile(filename string) (*BenchFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic [8]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != benchMagic {
		return nil, fmt.Errorf("bad magic: %q", magic[:])
	}

	var version, reserved uint16
	if err := binary.Read(file, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != benchVersion {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	if err := binary.Read(file, binary.LittleEndian, &reserved); err != nil {
		return nil, fmt.Errorf("read reserved: %w", err)
	}

	var distCount uint32
	if err := binary.Read(file, binary.LittleEndian, &distCount); err != nil {
		return nil, fmt.Errorf("read dist count: %w", err)
	}

	bf := &BenchFile{
		Dist:   make(map[int64]float64, distCount),
		Scores: make(map[int64]float64, distCount),
	}
	for i := uint32(0); i < distCount; i++ {
		var idx int64
		var weight, score float64
		if err := binary.Read(file, binary.LittleEndian, &idx); err != nil {
			return nil, fmt.Errorf("read dist idx: %w", err)
		}
		if err := binary.Read(file, binary.LittleEndian, &weight); err != nil {
			return nil, fmt.Errorf("read dist weight: %w", err)
		}
		if err := binary.Read(file, binary.LittleEndian, &score); err != nil {
			return nil, fmt.Errorf("read dist score: %w", err)
		}
		bf.Dist[idx] = weight
		bf.Scores[idx] = score
	}

	var opCount uint64
	if err := binary.Read(file, binary.LittleEndian, &opCount); err != nil {
		return nil, fmt.Errorf("read op count: %w", err)
	}
	bf.Ops = make([]Operation, 0, opCount)
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var idx int64
		var score float64
		if err := binary.Read(file, binary.LittleEndian, &t); err != nil {
			return nil, fmt.Errorf("read op type: %w", err)
		}
		if err := binary.Read(file, binary.LittleEndian, &idx); err != nil {
			return nil, fmt.Errorf("read op idx: %w", err)
		}
		if err := binary.Read(file, binary.LittleEndian, &score); err != nil {
			return nil, fmt.Errorf("read op score: %w", err)
		}
		bf.Ops = append(bf.Ops, Operation{
			Type:   OperationType(t),
			Score:  score,
			Member: MemberKey(int(idx)),
		})
	}

	return bf, nil
}
