package datastream

import (
	"math"
	"path/filepath"
	"testing"
)

func floatAlmostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestZipfWeightsNormalized(t *testing.T) {
	gen := NewZipfDataGenerator(100, 1.2, 0.0, 42)

	sum := 0.0
	for _, w := range gen.Weights() {
		sum += w
	}
	if !floatAlmostEqual(sum, 1.0, 1e-9) {
		t.Fatalf("weights must sum to 1, got %v", sum)
	}
	if gen.Entropy() <= 0 {
		t.Fatalf("entropy must be positive, got %v", gen.Entropy())
	}
}

func TestGenerateOpsFirstOccurrenceIsInsert(t *testing.T) {
	gen := NewZipfDataGenerator(16, 1.2, 0.0, 42)
	ops := GenerateOps(gen, 500, 0.1, 0.1, 7)

	if len(ops) != 500 {
		t.Fatalf("ops len mismatch: got %d, want 500", len(ops))
	}

	// 重播規則：不存在的成員只能以 Insert 出現，
	// Delete 之後同一成員必須重新 Insert
	present := map[string]bool{}
	for i, op := range ops {
		switch op.Type {
		case OpInsert:
			if present[op.Member] {
				t.Fatalf("op[%d]: insert of already present member %s", i, op.Member)
			}
			present[op.Member] = true
		case OpSearch, OpRank:
			if !present[op.Member] {
				t.Fatalf("op[%d]: %v of absent member %s", i, op.Type, op.Member)
			}
		case OpDelete:
			if !present[op.Member] {
				t.Fatalf("op[%d]: delete of absent member %s", i, op.Member)
			}
			present[op.Member] = false
		default:
			t.Fatalf("op[%d]: unknown type %v", i, op.Type)
		}
	}
}

func TestGenerateOpsScoresAreStable(t *testing.T) {
	gen := NewZipfDataGenerator(8, 1.2, 0.0, 42)
	ops := GenerateOps(gen, 300, 0.2, 0.0, 7)

	// 同一成員的每筆操作都必須帶同一個分數
	seen := map[string]float64{}
	for i, op := range ops {
		if prev, ok := seen[op.Member]; ok {
			if prev != op.Score {
				t.Fatalf("op[%d]: member %s score changed %v -> %v", i, op.Member, prev, op.Score)
			}
		} else {
			seen[op.Member] = op.Score
		}
	}
}

func TestWriteAndReadBenchFile(t *testing.T) {
	n := 8
	k := 200
	gen := NewZipfDataGenerator(n, 1.2, 0.0, 42)

	tmp := t.TempDir()
	file := filepath.Join(tmp, "bench.bin")

	if err := WriteBenchFile(gen, k, 0.05, 0.1, 7, file); err != nil {
		t.Fatalf("WriteBenchFile error: %v", err)
	}

	bf, err := ReadBenchFile(file)
	if err != nil {
		t.Fatalf("ReadBenchFile error: %v", err)
	}

	// 驗證分布表
	weights := gen.Weights()
	if len(bf.Dist) != n {
		t.Fatalf("dist len mismatch: got %d, want %d", len(bf.Dist), n)
	}
	for i := 0; i < n; i++ {
		w, ok := bf.Dist[int64(i)]
		if !ok {
			t.Fatalf("missing idx in dist: %d", i)
		}
		if !floatAlmostEqual(w, weights[i], 1e-12) {
			t.Fatalf("weight mismatch for idx %d: got %v, want %v", i, w, weights[i])
		}
		if !floatAlmostEqual(bf.Scores[int64(i)], gen.ScoreOf(i), 1e-12) {
			t.Fatalf("score mismatch for idx %d", i)
		}
	}

	// 驗證操作序列
	if len(bf.Ops) != k {
		t.Fatalf("ops len mismatch: got %d, want %d", len(bf.Ops), k)
	}
	present := map[string]bool{}
	for i, op := range bf.Ops {
		if !present[op.Member] && op.Type != OpInsert {
			t.Fatalf("op[%d] first occurrence must be Insert, got %v", i, op.Type)
		}
		switch op.Type {
		case OpInsert:
			present[op.Member] = true
		case OpDelete:
			present[op.Member] = false
		}
	}

	// 驗證 ToSequenceModel
	m := bf.ToSequenceModel()
	count := 0
	for {
		if _, ok := m.Next(); !ok {
			break
		}
		count++
	}
	if count != k {
		t.Fatalf("sequence model length mismatch: got %d, want %d", count, k)
	}

	m.Reset()
	head := m.NextN(10)
	if len(head) != 10 {
		t.Fatalf("NextN(10) returned %d ops", len(head))
	}
	if bf.Entropy() <= 0 {
		t.Fatalf("entropy must be positive, got %v", bf.Entropy())
	}
}

func TestWriteBenchFileRejectsBadRatios(t *testing.T) {
	gen := NewUniformDataGenerator(8, 42)
	tmp := t.TempDir()
	file := filepath.Join(tmp, "bench.bin")

	if err := WriteBenchFile(gen, 10, 0.8, 0.5, 7, file); err == nil {
		t.Fatalf("expected error for ratios summing above 1")
	}
	if err := WriteBenchFile(gen, -1, 0.1, 0.1, 7, file); err == nil {
		t.Fatalf("expected error for negative k")
	}
}

func TestUniformGenerator(t *testing.T) {
	gen := NewUniformDataGenerator(64, 42)

	for i := 0; i < 1000; i++ {
		idx := gen.Next()
		if idx < 0 || idx >= 64 {
			t.Fatalf("index out of range: %d", idx)
		}
	}

	want := math.Log2(64)
	if !floatAlmostEqual(gen.Entropy(), want, 1e-9) {
		t.Fatalf("uniform entropy mismatch: got %v, want %v", gen.Entropy(), want)
	}
}
