package index

import "golang.org/x/sys/cpu"

// hasAVX2 gates the unrolled word-vector path for row-OR, the hot path named
// in §9 ("row-OR and row-AND are hot paths"). No new assembly is authored
// here: both paths are plain Go, but real CPU-feature detection selects
// between them, the same dispatch idiom the teacher uses for its SIMD
// byte search (simd.hasAVX2).
var hasAVX2 = cpu.X86.HasAVX2

func wordsFor(numStates int) int { return (numStates + 63) / 64 }

func setBit(row []uint64, v uint32) {
	row[v/64] |= 1 << (v % 64)
}

func testBit(row []uint64, v uint32) bool {
	return row[v/64]&(1<<(v%64)) != 0
}

func clearRow(row []uint64) {
	for i := range row {
		row[i] = 0
	}
}

func isZeroRow(row []uint64) bool {
	for _, w := range row {
		if w != 0 {
			return false
		}
	}
	return true
}

// orInto computes dst |= src, word by word. When AVX2 is available the loop
// is unrolled four words at a time; the result is identical either way, only
// the instruction-level parallelism differs.
func orInto(dst, src []uint64) {
	if hasAVX2 {
		orIntoUnrolled(dst, src)
		return
	}
	for i := range dst {
		dst[i] |= src[i]
	}
}

func orIntoUnrolled(dst, src []uint64) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < n; i++ {
		dst[i] |= src[i]
	}
}

// andInto computes dst &= src, word by word (used to intersect a candidate
// reachable set with the trimmed DAG's level membership).
func andInto(dst, src []uint64) {
	for i := range dst {
		dst[i] &= src[i]
	}
}

// forEachBit calls f with the index of every set bit in row.
func forEachBit(row []uint64, f func(uint32)) {
	for w, word := range row {
		for word != 0 {
			b := word & -word
			idx := trailingZeros64(b)
			f(uint32(w*64 + idx))
			word &^= b
		}
	}
}

func trailingZeros64(x uint64) int {
	if x == 0 {
		return 64
	}
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
