package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soukon/zskiplist-go/analy"
	"github.com/soukon/zskiplist-go/datastream"
	"github.com/soukon/zskiplist-go/leaderboard"
	"github.com/soukon/zskiplist-go/sortedset"
	"github.com/soukon/zskiplist-go/zskiplist"
)

func main() {
	var seed int64
	var verbose bool
	flag.Int64Var(&seed, "seed", 42, "seed for the skip list level generator")
	flag.BoolVar(&verbose, "v", false, "show leaderboard service logs")
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	fmt.Println("=== zskiplist demo ===")
	fmt.Println()

	demoBasicOperations(seed)
	demoRangeQuery(seed)
	demoRankQuery(seed)
	demoSortedSet()
	demoLeaderboard()
	demoPerformance(seed)
}

func demoBasicOperations(seed int64) {
	fmt.Println("1. === basic operations ===")

	sl := zskiplist.NewWithSeed(seed)
	for _, e := range []struct {
		score  float64
		member string
	}{
		{1.0, "Alice"}, {2.5, "Bob"}, {1.8, "Charlie"}, {3.2, "David"}, {0.5, "Eve"},
	} {
		sl.Insert(e.score, e.member)
		fmt.Printf("  insert score=%.1f member=%s\n", e.score, e.member)
	}
	fmt.Printf("length=%d, level=%d\n", sl.Length(), sl.Level())

	fmt.Printf("search (2.5, Bob): found=%v\n", sl.Search(2.5, "Bob") != nil)
	fmt.Printf("search (10.0, NotExist): found=%v\n", sl.Search(10.0, "NotExist") != nil)

	fmt.Printf("delete (1.8, Charlie): ok=%v, length=%d\n",
		sl.Delete(1.8, "Charlie"), sl.Length())

	fmt.Println("\nstructure:")
	analy.PrintSkipList(sl, 8, 10)
	fmt.Println()
}

func demoRangeQuery(seed int64) {
	fmt.Println("2. === score range query ===")

	sl := zskiplist.NewWithSeed(seed)
	names := []string{"Tom", "Jerry", "Mickey", "Donald", "Goofy"}
	scores := []float64{10.0, 25.0, 18.0, 32.0, 15.0}
	for i := range names {
		sl.Insert(scores[i], names[i])
		fmt.Printf("  insert score=%.1f member=%s\n", scores[i], names[i])
	}

	fmt.Println("range [15.0, 30.0]:")
	for _, nd := range sl.GetByScoreRange(15.0, 30.0) {
		fmt.Printf("  score=%.1f member=%s\n", nd.Score(), nd.Member())
	}
	fmt.Println()
}

func demoRankQuery(seed int64) {
	fmt.Println("3. === rank query ===")

	sl := zskiplist.NewWithSeed(seed)
	sl.Insert(100.0, "first")
	sl.Insert(90.0, "second")
	sl.Insert(85.0, "third")
	sl.Insert(80.0, "fourth")
	sl.Insert(75.0, "fifth")

	for rank := int64(1); rank <= sl.Length(); rank++ {
		nd := sl.GetByRank(rank)
		fmt.Printf("  rank %d: score=%.1f member=%s\n", rank, nd.Score(), nd.Member())
	}
	fmt.Println()
}

func demoSortedSet() {
	fmt.Println("4. === sorted set (ZSET style) ===")

	zs := sortedset.New()
	zs.Add("player1", 100)
	zs.Add("player2", 200)
	zs.Add("player3", 150)
	zs.Add("player4", 300)
	zs.Add("player5", 120)

	fmt.Printf("cardinality: %d\n", zs.Len())

	fmt.Println("top 3 by score:")
	for i, e := range zs.TopN(3) {
		fmt.Printf("  %d) %s (score: %.0f)\n", i+1, e.Member, e.Score)
	}

	fmt.Println("score range [100, 200]:")
	for _, e := range zs.RangeByScore(100, 200) {
		fmt.Printf("  %s (score: %.0f)\n", e.Member, e.Score)
	}

	if score, ok := zs.Score("player3"); ok {
		fmt.Printf("score of player3: %.0f (rank %d)\n", score, zs.Rank("player3"))
	}

	fmt.Printf("remove player2: %v, cardinality: %d\n", zs.Remove("player2"), zs.Len())
	fmt.Println()
}

func demoLeaderboard() {
	fmt.Println("5. === leaderboard service ===")

	lb := leaderboard.New()
	board := leaderboard.DailyKey("game", time.Now())
	fmt.Printf("board: %s\n", board)

	lb.AddScore(board, "alice", 120)
	lb.AddScore(board, "bob", 95)
	lb.AddScore(board, "carol", 180)
	lb.AddScore(board, "alice", 40)

	for _, e := range lb.GetTopN(board, 3) {
		fmt.Printf("  #%d %s: %.0f\n", e.Rank, e.Member, e.Score)
	}
	fmt.Printf("rank of bob: %d\n", lb.GetRank(board, "bob"))
	fmt.Println()
}

func demoPerformance(seed int64) {
	fmt.Println("6. === performance ===")

	const n = 10000
	gen := datastream.NewUniformDataGenerator(n, seed)
	sl := zskiplist.NewWithSeed(seed)

	start := time.Now()
	for i := 0; i < n; i++ {
		sl.Insert(gen.ScoreOf(i), datastream.MemberKey(i))
	}
	fmt.Printf("insert %d elements: %v (length=%d, level=%d)\n",
		n, time.Since(start), sl.Length(), sl.Level())

	start = time.Now()
	for i := 0; i < 1000; i++ {
		sl.GetByRank(int64(gen.Next()) + 1)
	}
	fmt.Printf("1000 rank lookups: %v\n", time.Since(start))

	start = time.Now()
	hits := 0
	for i := 0; i < 100; i++ {
		min := gen.ScoreOf(gen.Next())
		hits += len(sl.GetByScoreRange(min, min+50))
	}
	fmt.Printf("100 range queries: %v (avg %.1f nodes per query)\n",
		time.Since(start), float64(hits)/100)

	counts := analy.CountLevel(sl)
	fmt.Println("nodes per level:")
	for i := len(counts) - 1; i >= 0; i-- {
		fmt.Printf("  level %2d: %d\n", i, counts[i])
	}

	if !analy.CheckStruct(sl) {
		logrus.Warn("structure audit failed")
	}
	fmt.Println("\n=== demo end ===")
}
