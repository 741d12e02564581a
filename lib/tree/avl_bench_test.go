package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"
)

func benchRandomKeys(n int) []int {
	keys := make([]int, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, randv2.Int())
	}
	return keys
}

func BenchmarkAVLTree_RandomInsert(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()
	keys := benchRandomKeys(b.N)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(keys[i])
	}
}

func BenchmarkAVLTree_SerialInsert(b *testing.B) {
	tree := NewAVLTree[int]()
	for i := 0; i < b.N; i++ {
		tree.Insert(i)
	}
}

func BenchmarkAVLTree_RandomSearch(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.Insert(k)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if tree.Search(keys[i]) == nil {
			b.Fatalf("key %d not found", keys[i])
		}
	}
}

func BenchmarkAVLTree_RandomRemove(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.Insert(k)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if err := tree.Remove(keys[i]); err != nil {
			panic(err)
		}
	}
}

func BenchmarkBTree_RandomInsert(b *testing.B) {
	b.StopTimer()
	tree := btree.NewOrderedG[int](32)
	keys := benchRandomKeys(b.N)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.ReplaceOrInsert(keys[i])
	}
}

func BenchmarkBTree_RandomSearch(b *testing.B) {
	b.StopTimer()
	tree := btree.NewOrderedG[int](32)
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.ReplaceOrInsert(k)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := tree.Get(keys[i]); !ok {
			b.Fatalf("key %d not found", keys[i])
		}
	}
}

func BenchmarkBTree_RandomRemove(b *testing.B) {
	b.StopTimer()
	tree := btree.NewOrderedG[int](32)
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.ReplaceOrInsert(k)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Delete(keys[i])
	}
}

func BenchmarkLLRB_RandomInsert(b *testing.B) {
	b.StopTimer()
	tree := llrb.New()
	keys := benchRandomKeys(b.N)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.ReplaceOrInsert(llrb.Int(keys[i]))
	}
}

func BenchmarkLLRB_RandomSearch(b *testing.B) {
	b.StopTimer()
	tree := llrb.New()
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.ReplaceOrInsert(llrb.Int(k))
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if tree.Get(llrb.Int(keys[i])) == nil {
			b.Fatalf("key %d not found", keys[i])
		}
	}
}

func BenchmarkLLRB_RandomRemove(b *testing.B) {
	b.StopTimer()
	tree := llrb.New()
	keys := benchRandomKeys(b.N)
	for _, k := range keys {
		tree.ReplaceOrInsert(llrb.Int(k))
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Delete(llrb.Int(keys[i]))
	}
}
