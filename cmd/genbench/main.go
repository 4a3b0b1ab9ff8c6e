package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soukon/zskiplist-go/datastream"
)

func main() {
	var out string
	var n int
	var k int
	var dist string
	var a float64
	var b float64
	var deleteRatio float64
	var rankRatio float64
	var seed int64
	var nums int

	flag.StringVar(&out, "out", "bench.bin", "output path (with -nums > 1 an index is appended)")
	flag.IntVar(&n, "n", 1000, "number of members")
	flag.IntVar(&k, "k", 100000, "number of operations")
	flag.StringVar(&dist, "dist", "zipf", "access distribution: zipf or uniform")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 0.0, "Zipf parameter b")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.05, "ratio of delete operations")
	flag.Float64Var(&rankRatio, "rankRatio", 0.1, "ratio of rank operations")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "base seed, file i uses seed+i")
	flag.IntVar(&nums, "nums", 1, "how many files to generate")
	flag.Parse()

	if n <= 0 || k < 0 || nums <= 0 {
		logrus.Fatalf("invalid params: n=%d k=%d nums=%d", n, k, nums)
	}

	for i := 0; i < nums; i++ {
		path := out
		if nums > 1 {
			ext := filepath.Ext(out)
			path = fmt.Sprintf("%s_%03d%s", out[:len(out)-len(ext)], i, ext)
		}

		s := seed + int64(i)
		var gen datastream.Generator
		switch dist {
		case "zipf":
			gen = datastream.NewZipfDataGenerator(n, a, b, s)
		case "uniform":
			gen = datastream.NewUniformDataGenerator(n, s)
		default:
			logrus.Fatalf("unknown -dist: %s", dist)
		}

		if err := datastream.WriteBenchFile(gen, k, deleteRatio, rankRatio, s, path); err != nil {
			logrus.Fatalf("write %s: %v", path, err)
		}
		logrus.Infof("wrote %s (n=%d, k=%d, dist=%s, entropy=%.6f)", path, n, k, dist, gen.Entropy())
	}
}
