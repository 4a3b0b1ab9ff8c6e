package zskiplist

// Level 節點在單一層的前進資訊
type Level struct {
	forward *Node
	// span 記錄跨到 forward 之間底層的跳躍數，相鄰時為 1
	span int64
}

// Node 跳表節點，持有 (score, member) 與結構性欄位。
// 節點只能由 SkipList 建立與改寫，外部僅能讀取。
//
// member 的全序採用 Go string 的逐位元組比較，
// 分數相同時以此決定先後順序。
type Node struct {
	score    float64
	member   string
	backward *Node
	level    []Level
}

// newNode 建立具有 height 層的節點，各層 forward 為 nil、span 為 0
func newNode(height int, score float64, member string) *Node {
	return &Node{
		score:  score,
		member: member,
		level:  make([]Level, height),
	}
}

// Score 回傳節點分數
func (nd *Node) Score() float64 {
	return nd.score
}

// Member 回傳節點成員
func (nd *Node) Member() string {
	return nd.member
}

// Height 回傳節點參與的層數
func (nd *Node) Height() int {
	return len(nd.level)
}

// Next 回傳底層的下一個節點
func (nd *Node) Next() *Node {
	return nd.level[0].forward
}

// NextAt 回傳指定層的下一個節點，超出層數時回傳 nil
func (nd *Node) NextAt(level int) *Node {
	if level < 0 || level >= len(nd.level) {
		return nil
	}
	return nd.level[level].forward
}

// SpanAt 回傳指定層的跨度，超出層數時回傳 0
func (nd *Node) SpanAt(level int) int64 {
	if level < 0 || level >= len(nd.level) {
		return 0
	}
	return nd.level[level].span
}

// Backward 回傳底層的前一個節點，第一個節點回傳 nil
func (nd *Node) Backward() *Node {
	return nd.backward
}
