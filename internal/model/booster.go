package model

import "fmt"

// TreeNode is one node of a regression tree in the exported dump. Leaf nodes
// have Left == -1 and carry the leaf Value; split nodes route on
// vec[Feature] < Threshold (missing-value handling is not needed here, the
// serving layer only produces finite inputs).
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is one regression tree as a node array rooted at index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Booster is a gradient-boosted tree ensemble exported from training as a
// JSON dump. A prediction is the base score plus the sum of each tree's leaf
// value.
type Booster struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
}

// Validate checks structural sanity of the dump against the model's feature
// count.
func (b *Booster) Validate(numFeatures int) error {
	if len(b.Trees) == 0 {
		return fmt.Errorf("model: booster has no trees")
	}
	for ti, tree := range b.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("model: tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Left == -1 {
				continue
			}
			if node.Feature < 0 || node.Feature >= numFeatures {
				return fmt.Errorf("model: tree %d node %d splits on feature %d, model has %d",
					ti, ni, node.Feature, numFeatures)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("model: tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}
	return nil
}

// Predict evaluates the ensemble on a scaled feature vector.
func (b *Booster) Predict(vec []float64) float64 {
	sum := b.BaseScore
	for _, tree := range b.Trees {
		sum += tree.eval(vec)
	}
	return sum
}

func (t *Tree) eval(vec []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Left == -1 {
			return node.Value
		}
		if vec[node.Feature] < node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}
