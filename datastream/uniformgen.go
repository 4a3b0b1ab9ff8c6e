package datastream

import (
	"math"
	"math/rand"
)

// UniformDataGenerator 產生平均分布存取頻率的 (score, member) 工作負載，
// 每個成員被存取的機率皆相同
type UniformDataGenerator struct {
	n      int
	scores []float64
	rng    *rand.Rand
}

func NewUniformDataGenerator(n int, seed int64) *UniformDataGenerator {
	rng := rand.New(rand.NewSource(seed))
	return &UniformDataGenerator{
		n:      n,
		scores: randomScores(n, rng),
		rng:    rng,
	}
}

// N 回傳成員全域的大小
func (u *UniformDataGenerator) N() int {
	return u.n
}

// Next 等機率抽出一個成員索引 (0~n-1)
func (u *UniformDataGenerator) Next() int {
	return u.rng.Intn(u.n)
}

// GenerateSequence 產生指定長度的成員索引序列
func (u *UniformDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := 0; i < seqLen; i++ {
		seq[i] = u.Next()
	}
	return seq
}

// ScoreOf 回傳成員的固定分數
func (u *UniformDataGenerator) ScoreOf(idx int) float64 {
	return u.scores[idx]
}

// Weights 回傳各成員的存取機率
func (u *UniformDataGenerator) Weights() []float64 {
	w := make([]float64, u.n)
	p := 1.0 / float64(u.n)
	for i := range w {
		w[i] = p
	}
	return w
}

func (u *UniformDataGenerator) Entropy() float64 {
	p := 1.0 / float64(u.n)
	return -float64(u.n) * p * math.Log2(p)
}
