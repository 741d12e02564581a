package tree

import (
	"errors"

	"github.com/benz9527/xavl/lib/infra"
)

var (
	ErrAVLTreeValueNotFound = errors.New("[avltree] value not found")
	ErrAVLTreeEmpty         = errors.New("[avltree] empty tree")
)

type AVLDirection int8

const (
	Left AVLDirection = -1 + iota
	Root
	Right
)

func (dir AVLDirection) String() string {
	switch dir {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

// AVLRebalanceShape is named by the heavy side of the unbalanced node
// followed by the heavy side of that node's higher child.
type AVLRebalanceShape uint8

const (
	LL AVLRebalanceShape = iota
	LR
	RR
	RL
)

func (shape AVLRebalanceShape) String() string {
	switch shape {
	case LL:
		return "LL"
	case LR:
		return "LR"
	case RR:
		return "RR"
	case RL:
		return "RL"
	default:
	}
	return "Unknown"
}

// Rotations returns how many single rotations the shape takes to repair.
func (shape AVLRebalanceShape) Rotations() int64 {
	if shape == LR || shape == RL {
		return 2
	}
	return 1
}

type AVLNode[T infra.OrderedKey] interface {
	Value() T
	// Height of the subtree rooted at this node. A leaf is 1.
	Height() int
	// BalanceFactor is the left subtree height minus the right subtree height.
	BalanceFactor() int
	Direction() AVLDirection
	Left() AVLNode[T]
	Right() AVLNode[T]
	Parent() AVLNode[T]
}

// AVLTree is a height-balanced binary search tree with multiset semantics.
// Equal values are placed in the right subtree.
// Note that the tree is not thread safe.
type AVLTree[T infra.OrderedKey] interface {
	Len() int64
	IsEmpty() bool
	Height() int
	Root() AVLNode[T]
	Insert(value T)
	// Remove removes one node holding value.
	// ErrAVLTreeValueNotFound is returned and the tree stays untouched
	// if there is no such node.
	Remove(value T) error
	// RemoveMin and RemoveMax remove the first and the last value in tree
	// order, see Min and Max.
	RemoveMin() (T, error)
	RemoveMax() (T, error)
	// Search returns the first node matching value on the descent from root, or nil.
	Search(value T) AVLNode[T]
	Contains(value T) bool
	// Min and Max return the first and the last value in tree order, the
	// leftmost and the rightmost node. With WithAVLTreeDesc, Min is the
	// numerically largest value. ErrAVLTreeEmpty is returned on an empty tree.
	Min() (T, error)
	Max() (T, error)
	PreOrder() []T
	InOrder() []T
	PostOrder() []T
	LevelOrder() []T
	LevelOrderByDepth() [][]T
	Foreach(action func(idx int64, value T) bool)
	Release()
}
