package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateMasteryStreak(t *testing.T) {
	// Three newest attempts all correct masters regardless of volume.
	assert.True(t, EvaluateMastery(3, 3, 1.0, []bool{true, true, true}))
	assert.True(t, EvaluateMastery(5, 3, 0.6, []bool{true, true, true}))

	// A miss inside the window breaks the streak.
	assert.False(t, EvaluateMastery(5, 3, 0.6, []bool{true, false, true}))
	assert.False(t, EvaluateMastery(5, 3, 0.6, []bool{false, true, true}))
}

func TestEvaluateMasteryShortHistory(t *testing.T) {
	assert.False(t, EvaluateMastery(2, 2, 1.0, []bool{true, true}))
	assert.False(t, EvaluateMastery(1, 1, 1.0, []bool{true}))
	assert.False(t, EvaluateMastery(0, 0, 0, nil))
}

func TestEvaluateMasteryVolume(t *testing.T) {
	// 9/10 correct, newest attempt wrong: volume clause carries it.
	assert.True(t, EvaluateMastery(10, 9, 0.9, []bool{false, true, true}))

	// Below either threshold fails.
	assert.False(t, EvaluateMastery(9, 9, 1.0, []bool{false, true, true}))
	assert.False(t, EvaluateMastery(10, 8, 0.8, []bool{false, true, true}))
}

func TestEvaluateMasteryWindowIsNewestFirst(t *testing.T) {
	// Only the first three entries of the window count.
	assert.True(t, EvaluateMastery(6, 3, 0.5, []bool{true, true, true, false, false}))
	assert.False(t, EvaluateMastery(6, 3, 0.5, []bool{false, true, true, true, true}))
}
