package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer_AddAndDrain(t *testing.T) {
	b := NewBatchBuffer[int]()
	assert.False(t, b.HasData())

	b.Add(1, 2, 3)
	assert.Equal(t, 3, b.Size())
	assert.True(t, b.HasData())

	batch := b.GetAndClear()
	assert.Equal(t, []int{1, 2, 3}, batch)
	assert.Zero(t, b.Size())
	assert.Nil(t, b.GetAndClear())
}

func TestBatchBuffer_ConcurrentAdds(t *testing.T) {
	b := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Add(n)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, b.Size())
	assert.Len(t, b.GetAndClear(), 1000)
}
