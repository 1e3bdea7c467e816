package matcher

import (
	"slices"
	"sort"
	"unicode/utf8"
)

const noPattern = -1

// FlatNode is a trie node in breadth-first order. Its outgoing edges are
// Edges[EdgeStart : EdgeStart+EdgeCount], sorted by rune.
type FlatNode struct {
	EdgeStart uint32
	EdgeCount uint32
	// Fail is the node of the longest proper suffix that is also a trie path.
	Fail int32
	// Output is the nearest node on the fail chain that ends a pattern, or -1.
	Output int32
	// Pattern is the pattern ending at this node, or -1.
	Pattern int32
}

// FlatEdge is a labeled transition.
type FlatEdge struct {
	Rune   rune
	Target int32
}

// core holds the pattern table and the flattened trie shared by both
// strategies. key maps a pattern to its trie spelling.
type core struct {
	key func(string) string

	patterns       []string
	patternPayload []int32
	payloads       []Payload
	index          map[string]int32

	nodes     []FlatNode
	edges     []FlatEdge
	finalized bool
}

func newCore(key func(string) string) core {
	return core{key: key, index: make(map[string]int32)}
}

func (c *core) insert(pattern string, p Payload) bool {
	if c.finalized {
		panic("matcher: Insert after Finalize")
	}
	if pattern == "" || !utf8.ValidString(pattern) {
		return false
	}
	k := c.key(pattern)
	if _, ok := c.index[k]; ok {
		return false
	}

	c.index[k] = int32(len(c.patterns))
	c.patterns = append(c.patterns, pattern)
	c.patternPayload = append(c.patternPayload, c.payloadID(p))
	return true
}

// payloadID reuses the last payload when equal: a headword and its forms
// are inserted back to back with one payload.
func (c *core) payloadID(p Payload) int32 {
	if n := len(c.payloads); n > 0 && c.payloads[n-1].equal(p) {
		return int32(n - 1)
	}
	c.payloads = append(c.payloads, p)
	return int32(len(c.payloads) - 1)
}

func (c *core) contains(pattern string) bool {
	_, ok := c.index[c.key(pattern)]
	return ok
}

func (c *core) match(start, end int, pattern int32) Match {
	return Match{
		Start:   start,
		End:     end,
		Pattern: c.patterns[pattern],
		Payload: c.payloads[c.patternPayload[pattern]],
	}
}

// buildTrie flattens the trie of all pattern keys. Nodes are numbered in
// breadth-first order, so a node's fail target always precedes it.
func (c *core) buildTrie() {
	type buildNode struct {
		children map[rune]int32
		pattern  int32
	}
	tree := []buildNode{{pattern: noPattern}}

	for id, p := range c.patterns {
		n := int32(0)
		for _, r := range c.key(p) {
			if tree[n].children == nil {
				tree[n].children = make(map[rune]int32)
			}
			next, ok := tree[n].children[r]
			if !ok {
				next = int32(len(tree))
				tree = append(tree, buildNode{pattern: noPattern})
				tree[n].children[r] = next
			}
			n = next
		}
		tree[n].pattern = int32(id)
	}

	order := make([]int32, 0, len(tree))
	flatID := make([]int32, len(tree))
	order = append(order, 0)
	for head := 0; head < len(order); head++ {
		n := order[head]
		runes := make([]rune, 0, len(tree[n].children))
		for r := range tree[n].children {
			runes = append(runes, r)
		}
		slices.Sort(runes)
		for _, r := range runes {
			child := tree[n].children[r]
			flatID[child] = int32(len(order))
			order = append(order, child)
		}
	}

	c.nodes = make([]FlatNode, len(order))
	c.edges = make([]FlatEdge, 0, len(order)-1)
	for i, n := range order {
		runes := make([]rune, 0, len(tree[n].children))
		for r := range tree[n].children {
			runes = append(runes, r)
		}
		slices.Sort(runes)

		c.nodes[i] = FlatNode{
			EdgeStart: uint32(len(c.edges)),
			EdgeCount: uint32(len(runes)),
			Output:    noPattern,
			Pattern:   tree[n].pattern,
		}
		for _, r := range runes {
			c.edges = append(c.edges, FlatEdge{Rune: r, Target: flatID[tree[n].children[r]]})
		}
	}
}

// child returns the target of node's edge labeled r, or -1.
func (c *core) child(node int32, r rune) int32 {
	n := c.nodes[node]
	if n.EdgeCount == 0 {
		return -1
	}
	edges := c.edges[n.EdgeStart : n.EdgeStart+n.EdgeCount]
	i := sort.Search(len(edges), func(i int) bool { return edges[i].Rune >= r })
	if i < len(edges) && edges[i].Rune == r {
		return edges[i].Target
	}
	return -1
}

// linkFailures fills Fail and Output for every node. Nodes are visited in
// index order, which is breadth-first.
func (c *core) linkFailures() {
	for u := range c.nodes {
		n := c.nodes[u]
		for _, e := range c.edges[n.EdgeStart : n.EdgeStart+n.EdgeCount] {
			v := e.Target
			fail := int32(0)
			if u != 0 {
				f := n.Fail
				for {
					if t := c.child(f, e.Rune); t >= 0 {
						fail = t
						break
					}
					if f == 0 {
						break
					}
					f = c.nodes[f].Fail
				}
			}
			c.nodes[v].Fail = fail

			if c.nodes[fail].Pattern != noPattern {
				c.nodes[v].Output = fail
			} else {
				c.nodes[v].Output = c.nodes[fail].Output
			}
		}
	}
}

func (c *core) rebuildIndex() {
	c.index = make(map[string]int32, len(c.patterns))
	for i, p := range c.patterns {
		c.index[c.key(p)] = int32(i)
	}
}
