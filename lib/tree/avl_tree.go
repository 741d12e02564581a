package tree

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xavl/lib/infra"
	"github.com/benz9527/xavl/lib/xlog"
)

var _ AVLTree[int] = (*avlTree[int])(nil)

type avlTree[T infra.OrderedKey] struct {
	root    *avlNode[T]
	count   int64
	isDesc  bool
	compare infra.OrderedKeyComparator[T]
	logger  xlog.XLogger
	stats   *avlTreeStats
}

func (tree *avlTree[T]) Len() int64 {
	return tree.count
}

func (tree *avlTree[T]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *avlTree[T]) Height() int {
	return tree.root.Height()
}

func (tree *avlTree[T]) Root() AVLNode[T] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// avltree properties:
// p1. Every node follows the BST order. Left subtree values are less than
//   the node's value. Right subtree values are greater or equal.
// p2. Every node's balance factor, height(left) - height(right), is
//   one of -1, 0 or 1 once an operation returns.
// (Conclusion) The height of n nodes is at most 1.44 * log2(n+2).

// i1: Empty avltree, the new node becomes the root directly.
func (tree *avlTree[T]) Insert(value T) {
	if /* i1 */ tree.root == nil {
		tree.root = newAVLNode[T](value, nil)
		tree.afterMutation(1)
		return
	}

	var x, y *avlNode[T] = tree.root, nil
	for x != nil {
		y = x
		if /* less */ tree.compare(value, x.value) < 0 {
			x = x.left
		} else /* greater or equal */ {
			x = x.right
		}
	}

	z := newAVLNode[T](value, y)
	if tree.compare(value, y.value) < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.insertRebalance(z)
	tree.afterMutation(1)
}

/*
Walk up from the new node. Only one ancestor can be unbalanced by an
insertion, and the rotation restores that subtree to its height before
the insertion. So the ancestors above it keep their heights and the walk
stops right after the first rebalance.
*/
func (tree *avlTree[T]) insertRebalance(x *avlNode[T]) {
	for aux := x; aux != nil; aux = aux.parent {
		aux.fixHeight()
		if !aux.isBalanced() {
			tree.rebalance(aux)
			return
		}
	}
}

/*
A rotation after a deletion may shrink the subtree height by one, so a
higher ancestor may become unbalanced in turn. The walk always continues
to the root.
*/
func (tree *avlTree[T]) removeRebalance(x *avlNode[T]) {
	for aux := x; aux != nil; aux = aux.parent {
		aux.fixHeight()
		if !aux.isBalanced() {
			aux = tree.rebalance(aux)
		}
	}
}

/*
<X> is the unbalanced node, P is its higher child (pivot) and C is P's
higher child.

LL: P is X's left child and C is P's left child.

	    <X>            P
	    /             / \
	   P     ====>   C  <X>
	  /
	 C

LR: P is X's left child and C is P's right child.
Rotate P to left to get LL, then rotate X to right.

	  <X>            <X>           C
	  /              /            / \
	 P     ====>    C    ====>   P  <X>
	  \            /
	   C          P

RR and RL are the mirrors.
*/
func (tree *avlTree[T]) rebalance(x *avlNode[T]) *avlNode[T] {
	pivot := x.higherChild()
	if pivot == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] unbalanced node without pivot")
	}
	current := pivot.higherChild()
	if current == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] pivot without higher child")
	}

	var (
		res   *avlNode[T]
		shape AVLRebalanceShape
	)
	switch pivot.Direction() {
	case Left:
		if /* LL */ current.Direction() == Left {
			shape = LL
		} else /* LR */ {
			shape = LR
			pivot.rotateLeft()
		}
		res = x.rotateRight()
	case Right:
		if /* RR */ current.Direction() == Right {
			shape = RR
		} else /* RL */ {
			shape = RL
			pivot.rotateRight()
		}
		res = x.rotateLeft()
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avltree] pivot is the root")
	}

	if res.isRoot() {
		tree.root = res
	}
	tree.stats.IncreaseRebalanceCount(shape)
	tree.logger.Debug("[avltree] rebalance",
		zap.String("shape", shape.String()),
		zap.Any("unbalanced", x.value),
		zap.Any("subtreeRoot", res.value),
	)
	return res
}

func (tree *avlTree[T]) search(value T) *avlNode[T] {
	var parent *avlNode[T]
	for aux := tree.root; aux != nil; {
		res := tree.compare(value, aux.value)
		if res == 0 {
			// Refresh the back-reference with the path just walked.
			aux.parent = parent
			return aux
		}

		parent = aux
		if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *avlTree[T]) Search(value T) AVLNode[T] {
	if node := tree.search(value); node != nil {
		return node
	}
	return nil
}

func (tree *avlTree[T]) Contains(value T) bool {
	return tree.search(value) != nil
}

/*
r1: Node Z is a leaf, detach it directly.

r2: Node Z has only one child, the child takes Z's slot.

r3: Node Z has left and right node.
Find Z's succ S (the minimum of the right subtree), copy its value into Z
and remove S instead. S has no left child, so it enters r1 or r2.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   copy(S, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..               Sr  ..
	   \
	   Sr

The rebalance walk starts from the parent of the node actually detached,
where the height changed first.
*/
func (tree *avlTree[T]) removeNode(z *avlNode[T]) {
	y := z
	if /* r3 */ z.left != nil && z.right != nil {
		y = z.right.minimum()
		z.value = y.value
	}

	var replace *avlNode[T]
	if /* r2 */ y.left != nil {
		replace = y.left
	} else if y.right != nil {
		replace = y.right
	}

	p := y.parent
	switch dir := y.Direction(); dir {
	case Root:
		tree.root = replace
	case Left:
		p.left = replace
	case Right:
		p.right = replace
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avltree] unknown node direction to remove")
	}
	if replace != nil {
		replace.parent = p
	}

	// Unlink node
	y.parent = nil
	y.left = nil
	y.right = nil

	tree.removeRebalance(p)
	tree.afterMutation(-1)
}

func (tree *avlTree[T]) Remove(value T) error {
	z := tree.search(value)
	if z == nil {
		tree.stats.IncreaseNotFoundCount()
		return ErrAVLTreeValueNotFound
	}
	tree.removeNode(z)
	return nil
}

func (tree *avlTree[T]) RemoveMin() (T, error) {
	_min := tree.root.minimum()
	if _min == nil {
		var zero T
		return zero, ErrAVLTreeEmpty
	}
	value := _min.value
	tree.removeNode(_min)
	return value, nil
}

func (tree *avlTree[T]) RemoveMax() (T, error) {
	_max := tree.root.maximum()
	if _max == nil {
		var zero T
		return zero, ErrAVLTreeEmpty
	}
	value := _max.value
	tree.removeNode(_max)
	return value, nil
}

func (tree *avlTree[T]) Min() (T, error) {
	_min := tree.root.minimum()
	if _min == nil {
		var zero T
		return zero, ErrAVLTreeEmpty
	}
	return _min.value, nil
}

func (tree *avlTree[T]) Max() (T, error) {
	_max := tree.root.maximum()
	if _max == nil {
		var zero T
		return zero, ErrAVLTreeEmpty
	}
	return _max.value, nil
}

func (tree *avlTree[T]) afterMutation(delta int64) {
	tree.count += delta
	tree.stats.RecordNodeCount(delta)
	tree.stats.RecordHeight(tree.root.Height())
}

// node-left-right
func (tree *avlTree[T]) PreOrder() []T {
	if tree.root == nil {
		return []T{}
	}

	res := make([]T, 0, tree.count)
	stack := make([]*avlNode[T], 0, tree.root.Height())
	stack = append(stack, tree.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		res = append(res, aux.value)
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
	return res
}

// left-node-right, in sorted order.
func (tree *avlTree[T]) InOrder() []T {
	res := make([]T, 0, tree.count)
	tree.Foreach(func(idx int64, value T) bool {
		res = append(res, value)
		return true
	})
	return res
}

// left-right-node. It is the reverse of a node-right-left walk.
func (tree *avlTree[T]) PostOrder() []T {
	if tree.root == nil {
		return []T{}
	}

	res := make([]T, 0, tree.count)
	stack := make([]*avlNode[T], 0, tree.root.Height())
	stack = append(stack, tree.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		res = append(res, aux.value)
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
	}
	return lo.Reverse(res)
}

// Breadth first, left to right within a depth.
func (tree *avlTree[T]) LevelOrder() []T {
	res := make([]T, 0, tree.count)
	for _, level := range tree.LevelOrderByDepth() {
		res = append(res, level...)
	}
	return res
}

func (tree *avlTree[T]) LevelOrderByDepth() [][]T {
	if tree.root == nil {
		return [][]T{}
	}

	res := make([][]T, 0, tree.root.Height())
	queue := linkedlistqueue.New()
	defer queue.Clear()
	queue.Enqueue(tree.root)

	for !queue.Empty() {
		size := queue.Size()
		level := make([]T, 0, size)
		for i := 0; i < size; i++ {
			e, _ := queue.Dequeue()
			aux := e.(*avlNode[T])
			level = append(level, aux.value)
			if aux.left != nil {
				queue.Enqueue(aux.left)
			}
			if aux.right != nil {
				queue.Enqueue(aux.right)
			}
		}
		res = append(res, level)
	}
	return res
}

// Inorder traversal to implement the DFS.
func (tree *avlTree[T]) Foreach(action func(idx int64, value T) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*avlNode[T], 0, aux.Height())
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.value) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func (tree *avlTree[T]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*avlNode[T], 0, aux.Height())
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		tree.afterMutation(-1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

type AVLTreeOpt[T infra.OrderedKey] func(*avlTree[T])

func WithAVLTreeDesc[T infra.OrderedKey]() AVLTreeOpt[T] {
	return func(tree *avlTree[T]) {
		tree.isDesc = true
	}
}

// WithAVLTreeLogger traces every rebalance at debug level.
func WithAVLTreeLogger[T infra.OrderedKey](logger xlog.XLogger) AVLTreeOpt[T] {
	return func(tree *avlTree[T]) {
		if logger != nil {
			tree.logger = logger.Named("avltree")
		}
	}
}

func WithAVLTreeStats[T infra.OrderedKey](name string) AVLTreeOpt[T] {
	return func(tree *avlTree[T]) {
		tree.stats = newAVLTreeStats(name)
	}
}

func NewAVLTree[T infra.OrderedKey](opts ...AVLTreeOpt[T]) AVLTree[T] {
	tree := &avlTree[T]{
		count:  0,
		isDesc: false,
		logger: xlog.NewNopXLogger(),
	}

	for _, o := range opts {
		o(tree)
	}

	if tree.isDesc {
		tree.compare = infra.DescOrderedKeyComparator[T]()
	} else {
		tree.compare = infra.AscOrderedKeyComparator[T]()
	}
	return tree
}
