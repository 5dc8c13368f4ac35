package jwsite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestAttemptLimiterBlocksAfterMax(t *testing.T) {
	defer goleak.VerifyNone(t)
	limiter := NewAttemptLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	assert.True(t, limiter.Check(ip), "first attempt")
	limiter.Record(ip)
	assert.True(t, limiter.Check(ip), "second attempt")
	limiter.Record(ip)
	assert.False(t, limiter.Check(ip), "third attempt is blocked")
}

func TestAttemptLimiterResetsAfterWindow(t *testing.T) {
	defer goleak.VerifyNone(t)
	limiter := NewAttemptLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	limiter.Record(ip)
	assert.False(t, limiter.Check(ip))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, limiter.Check(ip), "attempt after window is allowed")
}

func TestAttemptLimiterIsPerIP(t *testing.T) {
	defer goleak.VerifyNone(t)
	limiter := NewAttemptLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	limiter.Record("203.0.113.30")
	assert.True(t, limiter.Check("203.0.113.31"), "second ip is independent")
	assert.False(t, limiter.Check("203.0.113.30"))
}

func TestAttemptLimiterCheckDoesNotRecord(t *testing.T) {
	defer goleak.VerifyNone(t)
	limiter := NewAttemptLimiter(1, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Check(ip))
	}
	limiter.Record(ip)
	assert.False(t, limiter.Check(ip))
}

func TestAttemptLimiterStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	limiter := NewAttemptLimiter(1, 10*time.Millisecond)
	limiter.Stop()
	limiter.Stop()
}
