package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batches(items, 2))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Batches(items, 10))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Batches(items, 0), "non-positive size keeps one chunk")
	assert.Nil(t, Batches[int](nil, 2))
	assert.Nil(t, Batches([]int{}, 2))
}
