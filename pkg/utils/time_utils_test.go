package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestElapsedDays(t *testing.T) {
	assert.Equal(t, 0, ElapsedDays(testNow, testNow))
	assert.Equal(t, 30, ElapsedDays(testNow.AddDate(0, 0, -30), testNow))
	assert.Equal(t, 0, ElapsedDays(testNow.Add(-12*time.Hour), testNow), "partial days do not count")
	assert.Equal(t, 0, ElapsedDays(testNow.AddDate(0, 0, 5), testNow), "future timestamps clamp to zero")
}

func TestMostRecent(t *testing.T) {
	older := testNow.AddDate(0, 0, -30)
	newer := testNow.AddDate(0, 0, -1)

	assert.Nil(t, MostRecent())
	assert.Nil(t, MostRecent(nil, nil))
	assert.Equal(t, &newer, MostRecent(&older, nil, &newer))
	assert.Equal(t, &newer, MostRecent(&newer, &older))
}

func TestSafeDeref(t *testing.T) {
	s := "value"
	assert.Equal(t, "value", SafeDeref(&s))
	assert.Equal(t, "", SafeDeref(nil))
}

func TestTimePtr(t *testing.T) {
	p := TimePtr(testNow)
	assert.NotNil(t, p)
	assert.Equal(t, testNow, *p)
}
