package service

import "coachreports/internal/models"

// contentTree indexes one channel's nodes for parent/child walks
type contentTree struct {
	nodes    map[string]models.ContentNode
	children map[string][]models.ContentNode
	root     *models.ContentNode
}

// newContentTree keeps the input order for siblings
func newContentTree(nodes []models.ContentNode) *contentTree {
	t := &contentTree{
		nodes:    make(map[string]models.ContentNode, len(nodes)),
		children: make(map[string][]models.ContentNode),
	}
	for i, n := range nodes {
		t.nodes[n.ID] = n
		if n.ParentID == nil {
			if t.root == nil {
				t.root = &nodes[i]
			}
			continue
		}
		t.children[*n.ParentID] = append(t.children[*n.ParentID], n)
	}
	return t
}

func (t *contentTree) get(id string) (models.ContentNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// leaves returns the leaf descendants of id in tree order, or the node itself when it is a leaf
func (t *contentTree) leaves(id string) []models.ContentNode {
	var out []models.ContentNode
	seen := make(map[string]bool)

	var walk func(n models.ContentNode)
	walk = func(n models.ContentNode) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		if n.Kind.IsLeaf() {
			out = append(out, n)
			return
		}
		for _, child := range t.children[n.ID] {
			walk(child)
		}
	}

	if n, ok := t.nodes[id]; ok {
		walk(n)
	}
	return out
}

// ancestors returns the chain from the root down to id's parent
func (t *contentTree) ancestors(id string) []models.ContentNode {
	var chain []models.ContentNode
	seen := map[string]bool{id: true}

	n, ok := t.nodes[id]
	for ok && n.ParentID != nil && !seen[*n.ParentID] {
		seen[*n.ParentID] = true
		n, ok = t.nodes[*n.ParentID]
		if ok {
			chain = append(chain, n)
		}
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func scopeOf(n models.ContentNode) models.ContentScopeSummary {
	return models.ContentScopeSummary{ID: n.ID, ChannelID: n.ChannelID, Kind: n.Kind, Title: n.Title}
}

func scopesOf(nodes []models.ContentNode) []models.ContentScopeSummary {
	out := make([]models.ContentScopeSummary, len(nodes))
	for i, n := range nodes {
		out[i] = scopeOf(n)
	}
	return out
}
