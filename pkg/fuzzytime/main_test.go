package fuzzytime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSpanToFuzzyTimeString(t *testing.T) {
	assert.Equal(t, "just now", TimeSpanToFuzzyTimeString(10*time.Second))
	assert.Equal(t, "a minute ago", TimeSpanToFuzzyTimeString(90*time.Second))
	assert.Equal(t, "5 hours ago", TimeSpanToFuzzyTimeString(5*time.Hour+3*time.Minute))
	assert.Equal(t, "a day ago", TimeSpanToFuzzyTimeString(30*time.Hour))
	assert.Equal(t, "2 weeks ago", TimeSpanToFuzzyTimeString(15*24*time.Hour))
	assert.Equal(t, "3 years ago", TimeSpanToFuzzyTimeString(3*366*24*time.Hour))
	assert.Equal(t, "in the future", TimeSpanToFuzzyTimeString(-time.Hour))
}

func TestFromTimestamp(t *testing.T) {
	now := time.Unix(1000000, 0)
	assert.Equal(t, "2 days ago", FromTimestamp(1000000-2*86400, now))
}
