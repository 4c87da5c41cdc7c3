package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingAggregate_Average(t *testing.T) {
	assert.Equal(t, 0.0, RatingAggregate{}.Average(), "no ratings average to zero")
	assert.Equal(t, 4.0, RatingAggregate{Sum: 8, Count: 2}.Average())
	assert.Equal(t, 4.0, RatingAggregate{Sum: 12, Count: 3}.Average())
	assert.Equal(t, 4.5, RatingAggregate{Sum: 9, Count: 2}.Average())
	assert.Equal(t, 3.7, RatingAggregate{Sum: 11, Count: 3}.Average(), "mean rounds to one decimal")
}
