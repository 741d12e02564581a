package infra

import "cmp"

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// AscOrderedKeyComparator follows cmp.Compare, so a NaN key is ordered
// before any other float and equals another NaN.
func AscOrderedKeyComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return int64(cmp.Compare(i, j))
	}
}

// DescOrderedKeyComparator reverses the order, so bigger keys turn to left part.
// NaN keys are ordered last.
func DescOrderedKeyComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return int64(cmp.Compare(j, i))
	}
}
