package datastream

import (
	"math"
	"math/rand"
)

// ZipfDataGenerator 產生符合 Zipf 分布存取頻率的 (score, member) 工作負載。
// 每個成員在建構時分得一個固定分數，之後 Next 僅決定被存取的成員。
type ZipfDataGenerator struct {
	n       int
	a, b    float64
	weights []float64
	cdf     []float64
	scores  []float64
	rng     *rand.Rand
}

func NewZipfDataGenerator(n int, a, b float64, seed int64) *ZipfDataGenerator {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	// 正規化
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	// 建立累積分布函數 (CDF)
	cdf := make([]float64, n)
	cdf[0] = weights[0]
	for i := 1; i < n; i++ {
		cdf[i] = cdf[i-1] + weights[i]
	}
	return &ZipfDataGenerator{
		n:       n,
		a:       a,
		b:       b,
		weights: weights,
		cdf:     cdf,
		scores:  randomScores(n, rng),
		rng:     rng,
	}
}

// N 回傳成員全域的大小
func (z *ZipfDataGenerator) N() int {
	return z.n
}

// Next 依 Zipf 分布抽出一個成員索引 (0~n-1)
func (z *ZipfDataGenerator) Next() int {
	r := z.rng.Float64()
	// 二分搜尋 cdf
	lo, hi := 0, z.n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > z.cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// GenerateSequence 產生指定長度的成員索引序列
func (z *ZipfDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := 0; i < seqLen; i++ {
		seq[i] = z.Next()
	}
	return seq
}

// ScoreOf 回傳成員的固定分數
func (z *ZipfDataGenerator) ScoreOf(idx int) float64 {
	return z.scores[idx]
}

// Weights 回傳各成員的存取機率
func (z *ZipfDataGenerator) Weights() []float64 {
	cp := make([]float64, len(z.weights))
	copy(cp, z.weights)
	return cp
}

func (z *ZipfDataGenerator) Entropy() float64 {
	return entropyOf(z.weights)
}
