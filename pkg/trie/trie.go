// Package trie implements a character trie with bounded approximate lookup.
//
// Nodes live in a single arena and reference each other by index: every level
// of the tree is a sibling chain hanging off its parent's first child, and each
// node keeps a back index to its parent so a stored string can be rebuilt from
// any terminal node.
//
// FindApprox walks the trie and the query together, spending the edit budget
// on deletions, substitutions and insertions as it goes, so whole subtrees are
// pruned as soon as no edge exists for a needed character. Its cost grows
// exponentially with the distance; callers keep it at 2 or 3.
package trie

import "sort"

const none int32 = -1

type node struct {
	ch       rune
	terminal bool
	parent   int32
	child    int32
	next     int32
}

// Trie stores strings as sequences of runes.
// The zero value is not usable, create one with New.
type Trie struct {
	nodes []node
	root  int32
	size  int
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: none}
}

// Len returns the number of distinct strings stored.
func (t *Trie) Len() int {
	return t.size
}

// Nodes returns the number of allocated nodes.
func (t *Trie) Nodes() int {
	return len(t.nodes)
}

func (t *Trie) newNode(parent int32, ch rune) int32 {
	t.nodes = append(t.nodes, node{
		ch:     ch,
		parent: parent,
		child:  none,
		next:   none,
	})
	return int32(len(t.nodes) - 1)
}

// Insert adds s to the trie. Inserting an empty string or a string that is
// already present does nothing.
func (t *Trie) Insert(s string) {
	if s == "" {
		return
	}

	parent := none
	for _, r := range s {
		head := t.root
		if parent != none {
			head = t.nodes[parent].child
		}

		cur, prev := head, none
		for cur != none && t.nodes[cur].ch != r {
			prev, cur = cur, t.nodes[cur].next
		}

		if cur == none {
			cur = t.newNode(parent, r)
			switch {
			case prev != none:
				t.nodes[prev].next = cur
			case parent != none:
				t.nodes[parent].child = cur
			default:
				t.root = cur
			}
		}
		parent = cur
	}

	if !t.nodes[parent].terminal {
		t.nodes[parent].terminal = true
		t.size++
	}
}

// FindExact reports whether s was inserted.
func (t *Trie) FindExact(s string) bool {
	if s == "" {
		return false
	}

	cur := t.root
	last := none
	for _, r := range s {
		for cur != none && t.nodes[cur].ch != r {
			cur = t.nodes[cur].next
		}
		if cur == none {
			return false
		}
		last = cur
		cur = t.nodes[cur].child
	}
	return t.nodes[last].terminal
}

// FindApprox returns, in sorted order, every stored string within
// maxDistance Levenshtein edits of s.
func (t *Trie) FindApprox(s string, maxDistance int) []string {
	found := make(map[string]struct{})
	t.CollectApprox(s, maxDistance, found)

	out := make([]string, 0, len(found))
	for str := range found {
		out = append(out, str)
	}
	sort.Strings(out)
	return out
}

// CollectApprox adds every stored string within maxDistance edits of s to out.
func (t *Trie) CollectApprox(s string, maxDistance int, out map[string]struct{}) {
	if t.root == none || maxDistance < 0 {
		return
	}
	t.findApprox(none, t.root, []rune(s), maxDistance, out)
}

// findApprox explores the level starting at current. last is the node
// reached by matching the query consumed so far.
func (t *Trie) findApprox(last, current int32, s []rune, distance int, out map[string]struct{}) {
	// drop a query character; stays on the same level
	if len(s) > 0 && distance > 0 {
		t.findApprox(last, current, s[1:], distance-1, out)
	}

	if len(s) == 0 && last != none && t.nodes[last].terminal {
		out[t.spell(last)] = struct{}{}
	}

	if distance == 0 && len(s) == 0 {
		return
	}

	for cur := current; cur != none; cur = t.nodes[cur].next {
		n := t.nodes[cur]

		if len(s) > 0 && n.ch == s[0] {
			t.findApprox(cur, n.child, s[1:], distance, out)
		}

		if distance > 0 && len(s) > 0 && n.ch != s[0] {
			t.findApprox(cur, n.child, s[1:], distance-1, out)
		}

		// extra trie character, query not consumed
		if distance > 0 {
			t.findApprox(cur, n.child, s, distance-1, out)
		}
	}
}

// spell rebuilds the string ending at idx by walking parent links.
func (t *Trie) spell(idx int32) string {
	var rev []rune
	for cur := idx; cur != none; cur = t.nodes[cur].parent {
		rev = append(rev, t.nodes[cur].ch)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return string(rev)
}

// Walk calls fn for every stored string in depth-first order.
func (t *Trie) Walk(fn func(s string)) {
	t.walk(t.root, fn)
}

func (t *Trie) walk(idx int32, fn func(s string)) {
	for cur := idx; cur != none; cur = t.nodes[cur].next {
		if t.nodes[cur].terminal {
			fn(t.spell(cur))
		}
		t.walk(t.nodes[cur].child, fn)
	}
}
