// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package snapshot models the serialized canvas content of a template: a
// flat map of nodes keyed by node ID, with a distinguished ROOT node. The
// versioning engine uses it for structural diffs and content digests; the
// package never renders or edits the content.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// RootID is the node ID of the canvas root in a serialized snapshot.
const RootID = "ROOT"

// Node is one element in a serialized canvas. Type is either a plain string
// or an object with a resolvedName field, depending on the editor build that
// produced the snapshot; Nodes and LinkedNodes reference children by ID.
type Node struct {
	Type        json.RawMessage   `json:"type"`
	Nodes       []string          `json:"nodes"`
	LinkedNodes map[string]string `json:"linkedNodes"`
	Props       json.RawMessage   `json:"props"`
}

// Graph is a parsed snapshot: the flat node map keyed by node ID.
type Graph map[string]Node

// Parse decodes a serialized snapshot. An empty payload parses to an empty
// graph; a payload without a ROOT node is rejected.
func Parse(data []byte) (Graph, error) {
	if len(data) == 0 {
		return Graph{}, nil
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(g) > 0 {
		if _, ok := g[RootID]; !ok {
			return nil, fmt.Errorf("parse snapshot: missing %s node", RootID)
		}
	}
	return g, nil
}

// TypeName resolves a node's declared component type name.
func (n Node) TypeName() string {
	if len(n.Type) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Type, &s); err == nil {
		return s
	}
	var obj struct {
		ResolvedName string `json:"resolvedName"`
	}
	if err := json.Unmarshal(n.Type, &obj); err == nil {
		return obj.ResolvedName
	}
	return ""
}

// NodeCount returns the number of nodes reachable from ROOT.
func (g Graph) NodeCount() int {
	count := 0
	g.walk(func(string, Node) { count++ })
	return count
}

// ComponentTypes returns the deduplicated, sorted set of component type
// names reachable from ROOT. Sorting makes the result independent of node
// ordering in the serialized form.
func (g Graph) ComponentTypes() []string {
	seen := make(map[string]bool)
	g.walk(func(_ string, n Node) {
		if name := n.TypeName(); name != "" {
			seen[name] = true
		}
	})
	types := make([]string, 0, len(seen))
	for name := range seen {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// walk visits every node reachable from ROOT exactly once.
func (g Graph) walk(visit func(id string, n Node)) {
	root, ok := g[RootID]
	if !ok {
		return
	}
	visited := map[string]bool{RootID: true}
	visit(RootID, root)

	stack := childIDs(root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		n, ok := g[id]
		if !ok {
			continue
		}
		visit(id, n)
		stack = append(stack, childIDs(n)...)
	}
}

func childIDs(n Node) []string {
	ids := append([]string(nil), n.Nodes...)
	for _, id := range n.LinkedNodes {
		ids = append(ids, id)
	}
	return ids
}

// RootChanged reports whether the root node's structure differs between two
// graphs: a different component type or a different ordered child list.
func RootChanged(a, b Graph) bool {
	ra, okA := a[RootID]
	rb, okB := b[RootID]
	if okA != okB {
		return true
	}
	if !okA {
		return false
	}
	if ra.TypeName() != rb.TypeName() {
		return true
	}
	if len(ra.Nodes) != len(rb.Nodes) {
		return true
	}
	for i := range ra.Nodes {
		if ra.Nodes[i] != rb.Nodes[i] {
			return true
		}
	}
	return false
}

// Digest returns the blake2b-256 hex digest of a serialized snapshot.
// Stored alongside each version to detect silent snapshot corruption.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
