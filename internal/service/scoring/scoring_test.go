package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.6, Round2(2.6000000000000005))
	assert.Equal(t, 1.5, Round2(1.499999))
	assert.Equal(t, -3.13, Round2(-3.125001))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.155, 0, 1))
	assert.Equal(t, 0.4, Clamp(0.4, 0, 1))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestTopN(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, TopN(items, 2))
	assert.Equal(t, items, TopN(items, 10))
	assert.Empty(t, TopN(items, 0))
}
