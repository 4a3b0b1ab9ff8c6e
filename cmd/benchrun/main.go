package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	huandu "github.com/huandu/skiplist"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/soukon/zskiplist-go/analy"
	"github.com/soukon/zskiplist-go/datastream"
	"github.com/soukon/zskiplist-go/zskiplist"
)

func main() {
	// Input: either provide -file, or provide -out and generation params
	var file string
	var out string
	var n int
	var k int
	var dist string
	var a float64
	var b float64
	var deleteRatio float64
	var rankRatio float64
	var seed int64

	var impls string
	var runs int
	var check bool

	flag.StringVar(&file, "file", "", "existing bench streamfile (ZLBENCH1 format)")
	flag.StringVar(&out, "out", "", "output path to write generated bench streamfile")
	flag.IntVar(&n, "n", 0, "number of members to generate")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.StringVar(&dist, "dist", "zipf", "access distribution: zipf or uniform")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 0.0, "Zipf parameter b")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.05, "ratio of delete operations")
	flag.Float64Var(&rankRatio, "rankRatio", 0.1, "ratio of rank operations")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generators and structures")
	flag.StringVar(&impls, "impl", "all", "implementations to run: all or comma list (zskiplist,huandu)")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	flag.BoolVar(&check, "check", false, "audit skip list structure after the first run")
	flag.Parse()

	benchPath := file
	if benchPath == "" {
		if out == "" {
			logrus.Fatal("either -file or -out with generation params (-n,-k) must be provided")
		}
		if n <= 0 || k < 0 {
			logrus.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		gen := newGenerator(dist, n, a, b, seed)
		if err := datastream.WriteBenchFile(gen, k, deleteRatio, rankRatio, seed, out); err != nil {
			logrus.Fatalf("generate bench file: %v", err)
		}
		logrus.Infof("generated bench file: %s", out)
		benchPath = out
	}

	bf, err := datastream.ReadBenchFile(benchPath)
	if err != nil {
		logrus.Fatalf("read bench file %s: %v", benchPath, err)
	}

	fmt.Printf("bench_file: %s\n", benchPath)
	fmt.Printf("members: %d\n", len(bf.Dist))
	fmt.Printf("ops: %d\n", len(bf.Ops))
	fmt.Printf("entropy: %.6f\n", bf.Entropy())

	toRun := parseImpls(impls)
	fmt.Printf("implementations to test: %s\n", strings.Join(toRun, ","))
	fmt.Println(strings.Repeat("=", 70))

	rows := make([][]string, 0, len(toRun))
	for _, impl := range toRun {
		logrus.Infof("benchmarking %s...", impl)
		stats := benchmarkImpl(bf, impl, runs, seed, check)
		thr := float64(len(bf.Ops)) / (stats.avgMs / 1000.0)
		rows = append(rows, []string{
			impl,
			fmt.Sprintf("%d", runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", thr),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func newGenerator(dist string, n int, a, b float64, seed int64) datastream.Generator {
	switch dist {
	case "zipf":
		return datastream.NewZipfDataGenerator(n, a, b, seed)
	case "uniform":
		return datastream.NewUniformDataGenerator(n, seed)
	default:
		logrus.Fatalf("unknown -dist: %s", dist)
		return nil
	}
}

func parseImpls(s string) []string {
	if s == "" || s == "all" {
		return []string{"zskiplist", "huandu"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, p := range parts {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		switch t {
		case "zskiplist", "huandu":
			out = append(out, t)
			seen[t] = true
		}
	}
	if len(out) == 0 {
		return []string{"zskiplist", "huandu"}
	}
	return out
}

type benchStats struct {
	avgMs float64
	minMs float64
	maxMs float64
}

func benchmarkImpl(bf *datastream.BenchFile, impl string, runs int, seed int64, check bool) benchStats {
	durations := make([]float64, 0, runs)
	for i := 0; i < runs; i++ {
		var elapsed time.Duration
		switch impl {
		case "zskiplist":
			sl := zskiplist.NewWithSeed(seed)
			elapsed = runZSkipList(sl, bf.Ops)
			if check && i == 0 {
				if analy.CheckStruct(sl) {
					logrus.Infof("structure audit passed (length=%d, level=%d)", sl.Length(), sl.Level())
				} else {
					logrus.Warn("structure audit failed")
				}
			}
		case "huandu":
			elapsed = runHuandu(bf.Ops)
		default:
			logrus.Fatalf("unknown -impl: %s", impl)
		}
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
	}

	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	return benchStats{
		avgMs: sum / float64(len(durations)),
		minMs: durations[0],
		maxMs: durations[len(durations)-1],
	}
}

func runZSkipList(sl *zskiplist.SkipList, ops []datastream.Operation) time.Duration {
	start := time.Now()
	for _, op := range ops {
		switch op.Type {
		case datastream.OpInsert:
			sl.Insert(op.Score, op.Member)
		case datastream.OpSearch:
			sl.Search(op.Score, op.Member)
		case datastream.OpDelete:
			sl.Delete(op.Score, op.Member)
		case datastream.OpRank:
			sl.Rank(op.Score, op.Member)
		}
	}
	return time.Since(start)
}

// runHuandu 以 huandu/skiplist 作為有序映射基準。
// 該結構不支援排名查詢，Rank 操作以 Get 代替。
func runHuandu(ops []datastream.Operation) time.Duration {
	list := huandu.New(huandu.String)
	start := time.Now()
	for _, op := range ops {
		switch op.Type {
		case datastream.OpInsert:
			list.Set(op.Member, op.Score)
		case datastream.OpSearch, datastream.OpRank:
			list.Get(op.Member)
		case datastream.OpDelete:
			list.Remove(op.Member)
		}
	}
	return time.Since(start)
}
