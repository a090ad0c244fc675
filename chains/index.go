// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chains

import "github.com/luxfi/arbscan/registry"

// Index is the frozen pool-address -> cycle-id reverse map (C6). Cycles
// are addressed by a single integer id using the offset scheme: 4-cycles
// occupy [0, N4), 5-cycles occupy [N4, N4+N5).
type Index struct {
	Cycles       []Cycle // id -> cycle, 4-cycles first then 5-cycles
	FourCount    int     // N4
	reverse      map[registry.Address][]int
}

// BuildIndex assigns ids to fourCycles then fiveCycles (offset scheme)
// and, for every consecutive symbol pair of every cycle, appends the
// cycle id to every pool address that resolves that pair under any DEX.
func BuildIndex(fourCycles, fiveCycles []Cycle, reg *registry.Registry) *Index {
	idx := &Index{
		Cycles:    append(append([]Cycle{}, fourCycles...), fiveCycles...),
		FourCount: len(fourCycles),
		reverse:   make(map[registry.Address][]int),
	}

	for id, c := range idx.Cycles {
		for i := 0; i+1 < len(c.Tokens); i++ {
			a, b := c.Tokens[i], c.Tokens[i+1]
			for _, rec := range reg.PoolsForPair(a, b) {
				idx.reverse[rec.Address] = append(idx.reverse[rec.Address], id)
			}
		}
	}
	return idx
}

// CyclesForPool returns every cycle id referencing pool, across all the
// pool's hops.
func (idx *Index) CyclesForPool(pool registry.Address) []int {
	return idx.reverse[pool]
}

// Cycle looks up a cycle by id.
func (idx *Index) Cycle(id int) Cycle {
	return idx.Cycles[id]
}

// Len returns the total number of indexed cycles (N4+N5).
func (idx *Index) Len() int {
	return len(idx.Cycles)
}
