package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 255, 256, 257, 10000} {
		seen := make([]int32, n)
		For(n, 4, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func TestChunkIndexWithinBounds(t *testing.T) {
	n := 5000
	chunks := Chunks(n, 3)
	var maxChunk int32 = -1
	For(n, 3, func(c, _, _ int) {
		for {
			cur := atomic.LoadInt32(&maxChunk)
			if int32(c) <= cur || atomic.CompareAndSwapInt32(&maxChunk, cur, int32(c)) {
				break
			}
		}
	})
	assert.Less(t, int(maxChunk), chunks)
}

func TestEachSum(t *testing.T) {
	var sum int64
	Each(1000, 0, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})
	assert.Equal(t, int64(999*1000/2), sum)
}

func TestWorkersDefault(t *testing.T) {
	assert.Greater(t, Workers(0), 0)
	assert.Equal(t, 3, Workers(3))
	assert.Equal(t, 0, Chunks(0, 2))
	assert.Equal(t, 1, Chunks(10, 2))
}
