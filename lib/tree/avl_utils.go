package tree

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/benz9527/xavl/lib/infra"
)

// avltree rule validation utilities.

var (
	ErrAVLTreeOrderViolation   = errors.New("avltree order violation")
	ErrAVLTreeBalanceViolation = errors.New("avltree balance violation")
	ErrAVLTreeHeightViolation  = errors.New("avltree height violation")
	ErrAVLTreeParentViolation  = errors.New("avltree parent violation")
)

// AVLHeightBound is the worst case height of an AVL tree with n nodes.
func AVLHeightBound(n int64) int {
	return int(math.Ceil(1.44 * math.Log2(float64(n+2))))
}

func comparatorOf[T infra.OrderedKey](tree AVLTree[T]) infra.OrderedKeyComparator[T] {
	if t, ok := tree.(*avlTree[T]); ok && t.compare != nil {
		return t.compare
	}
	return infra.AscOrderedKeyComparator[T]()
}

// BFS traversal to load all nodes.
func bfsNodes[T infra.OrderedKey](tree AVLTree[T]) []AVLNode[T] {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	nodes := make([]AVLNode[T], 0, tree.Len())
	nodes = append(nodes, aux)
	for i := 0; i < len(nodes); i++ {
		if l := nodes[i].Left(); l != nil {
			nodes = append(nodes, l)
		}
		if r := nodes[i].Right(); r != nil {
			nodes = append(nodes, r)
		}
	}
	return nodes
}

// Inorder traversal to validate the BST order.
// Equal values are inserted to the right, but a later rotation may lift
// one of them above its twin, so only a non-decreasing sequence is required.
func AVLOrderViolationValidate[T infra.OrderedKey](tree AVLTree[T]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}
	compare := comparatorOf[T](tree)

	stack := make([]AVLNode[T], 0, aux.Height())
	defer func() {
		clear(stack)
	}()
	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	var prev AVLNode[T]
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if prev != nil {
			if compare(prev.Value(), aux.Value()) > 0 {
				return fmt.Errorf("%w: %v before %v", ErrAVLTreeOrderViolation, prev.Value(), aux.Value())
			}
		}
		prev = aux
		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// Recomputes every height from the leaves, compares it with the cached
// one and checks the balance factor against the recomputed heights.
func validateSubtree[T infra.OrderedKey](node AVLNode[T]) (height int, err error) {
	if node == nil {
		return 0, nil
	}
	lh, lerr := validateSubtree[T](node.Left())
	rh, rerr := validateSubtree[T](node.Right())
	err = multierr.Combine(lerr, rerr)

	height = 1 + max(lh, rh)
	if height != node.Height() {
		err = multierr.Append(err, fmt.Errorf("%w: node %v cached %d, actual %d",
			ErrAVLTreeHeightViolation, node.Value(), node.Height(), height))
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: node %v balance factor %d",
			ErrAVLTreeBalanceViolation, node.Value(), bf))
	}
	return height, err
}

func AVLBalanceViolationValidate[T infra.OrderedKey](tree AVLTree[T]) error {
	_, err := validateSubtree[T](tree.Root())
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, ErrAVLTreeBalanceViolation) {
			return e
		}
	}
	return nil
}

// AVLHeightViolationValidate checks the cached heights and the
// worst case height bound.
func AVLHeightViolationValidate[T infra.OrderedKey](tree AVLTree[T]) error {
	height, err := validateSubtree[T](tree.Root())
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, ErrAVLTreeHeightViolation) {
			return e
		}
	}
	if bound := AVLHeightBound(tree.Len()); height > bound {
		return fmt.Errorf("%w: height %d exceeds bound %d of %d nodes",
			ErrAVLTreeHeightViolation, height, bound, tree.Len())
	}
	return nil
}

// Each child must point back to the node that holds it.
func AVLParentViolationValidate[T infra.OrderedKey](tree AVLTree[T]) error {
	nodes := bfsNodes[T](tree)
	if nodes == nil {
		return nil
	}
	if nodes[0].Parent() != nil {
		return fmt.Errorf("%w: root %v has a parent", ErrAVLTreeParentViolation, nodes[0].Value())
	}
	if int64(len(nodes)) != tree.Len() {
		return fmt.Errorf("%w: %d reachable nodes, len %d", ErrAVLTreeParentViolation, len(nodes), tree.Len())
	}

	for _, node := range nodes[1:] {
		p := node.Parent()
		if p == nil {
			return fmt.Errorf("%w: node %v without parent", ErrAVLTreeParentViolation, node.Value())
		}
		if isLeft, isRight := p.Left() == node, p.Right() == node; isLeft == isRight {
			return fmt.Errorf("%w: node %v is not a child of %v", ErrAVLTreeParentViolation, node.Value(), p.Value())
		}
	}
	return nil
}

// AVLViolationValidate runs all validations and combines their errors.
func AVLViolationValidate[T infra.OrderedKey](tree AVLTree[T]) error {
	return multierr.Combine(
		AVLOrderViolationValidate[T](tree),
		AVLBalanceViolationValidate[T](tree),
		AVLHeightViolationValidate[T](tree),
		AVLParentViolationValidate[T](tree),
	)
}
