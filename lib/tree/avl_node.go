package tree

import (
	"github.com/benz9527/xavl/lib/infra"
)

type avlNode[T infra.OrderedKey] struct {
	parent *avlNode[T]
	left   *avlNode[T]
	right  *avlNode[T]
	value  T
	height int
}

func newAVLNode[T infra.OrderedKey](value T, parent *avlNode[T]) *avlNode[T] {
	return &avlNode[T]{
		parent: parent,
		value:  value,
		height: 1,
	}
}

func (node *avlNode[T]) Value() T {
	return node.value
}

func (node *avlNode[T]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[T]) BalanceFactor() int {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}

func (node *avlNode[T]) Left() AVLNode[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[T]) Right() AVLNode[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *avlNode[T]) Parent() AVLNode[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *avlNode[T]) Direction() AVLDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] nil node without direction")
	}

	if node.parent == nil {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	if node == node.parent.right {
		return Right
	}
	// impossible run to here
	panic( /* debug assertion */ "[avltree] stale parent link")
}

func (node *avlNode[T]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *avlNode[T]) isBalanced() bool {
	bf := node.BalanceFactor()
	return bf >= -1 && bf <= 1
}

// fixHeight recomputes the cached height from the children.
// Children must already hold their own correct heights.
func (node *avlNode[T]) fixHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

func (node *avlNode[T]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

// higherChild returns the taller child. Equal heights only show up while
// a deletion is being repaired; the tie goes to the child on the same side
// as this node hangs from its parent.
func (node *avlNode[T]) higherChild() *avlNode[T] {
	lh, rh := node.left.Height(), node.right.Height()
	if lh > rh {
		return node.left
	} else if lh < rh {
		return node.right
	}

	if node.Direction() == Left {
		return node.left
	}
	return node.right
}

func (node *avlNode[T]) minimum() *avlNode[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *avlNode[T]) maximum() *avlNode[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

/*
LL shape. X is the unbalanced node, P is the pivot.

		   |                    |
		   X                    P
		  / \  rotateRight(X)  / \
		 P   R  ===========>  L   X
		/ \                      / \
	   L   Pr                  Pr   R

Returns P, which now occupies X's former position.
P.parent is nil if X was the root.
*/
func (node *avlNode[T]) rotateRight() *avlNode[T] {
	if node == nil || node.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] right rotate node is nil or node.left is nil")
	}

	p, pivot := node.parent, node.left
	dir := node.Direction()
	node.left, pivot.right = pivot.right, node

	node.fixLink()
	pivot.fixLink()
	node.fixHeight()
	pivot.fixHeight()

	switch dir {
	case Root:
	case Left:
		p.left = pivot
	case Right:
		p.right = pivot
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avltree] unknown node direction to right-rotate")
	}
	pivot.parent = p
	return pivot
}

/*
RR shape, the mirror of rotateRight.

		 |                       |
		 X                       P
		/ \    rotateLeft(X)    / \
	   L   P   ===========>    X   R
		  / \                 / \
		Pl   R               L   Pl
*/
func (node *avlNode[T]) rotateLeft() *avlNode[T] {
	if node == nil || node.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] left rotate node is nil or node.right is nil")
	}

	p, pivot := node.parent, node.right
	dir := node.Direction()
	node.right, pivot.left = pivot.left, node

	node.fixLink()
	pivot.fixLink()
	node.fixHeight()
	pivot.fixHeight()

	switch dir {
	case Root:
	case Left:
		p.left = pivot
	case Right:
		p.right = pivot
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avltree] unknown node direction to left-rotate")
	}
	pivot.parent = p
	return pivot
}
