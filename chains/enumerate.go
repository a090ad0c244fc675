// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chains implements the static cycle enumerator (C5) and the
// pool-to-cycle reverse index (C6).
package chains

import (
	"sort"

	"github.com/zeebo/blake3"

	"github.com/luxfi/arbscan/registry"
)

// Cycle is a deduplicated, ordered sequence of token symbols beginning
// and ending at the pivot token.
type Cycle struct {
	Tokens []string // len 4 (3 hops) or 5 (4 hops)
}

// Hops returns the number of edges in the cycle.
func (c Cycle) Hops() int {
	if len(c.Tokens) == 0 {
		return 0
	}
	return len(c.Tokens) - 1
}

// pairGroup gives two distinct tokens a single, order-independent id so
// the DFS can mark an unordered pair "used" regardless of which
// direction it is traversed in (§4.5).
type pairGroup struct {
	groups map[[2]string]int
	next   int
}

func newPairGroup() *pairGroup {
	return &pairGroup{groups: make(map[[2]string]int)}
}

func (g *pairGroup) id(a, b string) int {
	key := canon(a, b)
	if id, ok := g.groups[key]; ok {
		return id
	}
	id := g.next
	g.groups[key] = id
	g.next++
	return id
}

func canon(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// Enumerate runs the static DFS from §4.5. tokens is the validated
// universe (every token with at least one valid pair to another
// validated token); reg supplies IsPairValid. pivot is the start/end
// token. minHops and maxHops (§6 MIN_CHAIN_LENGTH / MAX_CHAIN_LENGTH,
// defaults 3 and 5; minHops is taken as a hop count and maxHops as a
// token count, so the defaults yield 3-hop and 4-hop cycles) bound the
// two cycle lengths the reverse index's offset scheme (C6) distinguishes: a
// "short" cycle closes at minHops hops, a "long" cycle closes at
// maxHops-1 hops (MAX_CHAIN_LENGTH counts tokens, one more than hops),
// which is also the DFS's recursion depth cap.
func Enumerate(tokens []string, reg *registry.Registry, pivot string, minHops, maxHops int) (fourCycles, fiveCycles []Cycle) {
	shortHops := minHops
	longHops := maxHops - 1
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)

	pg := newPairGroup()
	adjacency := make(map[string][]string)
	for _, a := range sorted {
		for _, b := range sorted {
			if a == b {
				continue
			}
			if reg.IsPairValid(a, b) {
				adjacency[a] = append(adjacency[a], b)
				pg.id(a, b) // pre-register so iteration order is stable
			}
		}
	}

	seenFour := make(map[[32]byte]struct{})
	seenFive := make(map[[32]byte]struct{})

	path := []string{pivot}
	usedGroups := make(map[int]bool)

	var dfs func(current string, depth int)
	dfs = func(current string, depth int) {
		if current == pivot && depth > 0 {
			// Closed a loop: record it if it is 3 or 4 hops, and never
			// extend past a closed cycle (pivot appears only at the
			// start and end).
			if depth == shortHops || depth == longHops {
				seq := append([]string{}, path...)
				key := sequenceKey(seq)
				if depth == shortHops {
					if _, ok := seenFour[key]; !ok {
						seenFour[key] = struct{}{}
						fourCycles = append(fourCycles, Cycle{Tokens: seq})
					}
				} else {
					if _, ok := seenFive[key]; !ok {
						seenFive[key] = struct{}{}
						fiveCycles = append(fiveCycles, Cycle{Tokens: seq})
					}
				}
			}
			return
		}
		if depth == longHops {
			return
		}
		for _, next := range adjacency[current] {
			gid := pg.id(current, next)
			if usedGroups[gid] {
				continue
			}
			if next != pivot {
				alreadyVisited := false
				for _, p := range path {
					if p == next {
						alreadyVisited = true
						break
					}
				}
				if alreadyVisited {
					continue
				}
			}
			usedGroups[gid] = true
			path = append(path, next)
			dfs(next, depth+1)
			path = path[:len(path)-1]
			usedGroups[gid] = false
		}
	}

	dfs(pivot, 0)

	return fourCycles, fiveCycles
}

// sequenceKey hashes a token sequence into a fixed-size dedup key with
// blake3 rather than concatenating into a string: every cycle in a
// large universe gets hashed once at enumeration time, and a 32-byte
// comparison is cheaper than a variable-length string compare once the
// cycle count runs into the tens of thousands.
func sequenceKey(seq []string) [32]byte {
	h := blake3.New()
	for _, s := range seq {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
