// Package graph provides the mutable undirected graph model that the coloring
// and layout engines operate on.
//
// # Overview
//
// A [Graph] is keyed by a totally ordered item type. Each item owns exactly one
// [Node]; nodes are held in an arena (a map keyed by value) and neighbor sets
// are stored as sorted sets of keys rather than node pointers. This keeps the
// cyclic neighbor relation free of reference cycles and lets [Graph.Clone]
// rebuild adjacency without recursing over the graph.
//
// Iteration order is always ascending by value, which makes every algorithm
// built on top of the graph deterministic.
//
// # Variants
//
// Two node variants exist, selected when the graph is created:
//
//   - [KindSimple]: plain nodes ([New])
//   - [KindColored]: nodes carry a color class, initially [Uncolored] ([NewColored])
//
// # Mutation
//
// All mutations are silent no-ops on unknown items:
//
//	g := graph.NewColored[int]()
//	g.AddWithNeighbors(1, 2, 3) // 1-2, 1-3
//	g.Disconnect(2, 3)          // not connected: nothing happens
//	g.Remove(1)                 // 2 and 3 remain, isolated
//
// Self-loops are accepted by [Graph.AddWithNeighbors]; callers that must not
// see them filter self-pairs before calling.
//
// # Invariants
//
// Every reachable graph satisfies: unique values, symmetric adjacency, and no
// neighbor key that is absent from the node set. [Graph.Validate] checks them.
//
// A Graph is not safe for concurrent use. The scheduler package serializes all
// mutations when a graph is shared with a running layout.
package graph
