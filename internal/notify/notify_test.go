package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Notify(t *testing.T) {
	s := NewSink(time.Minute)
	defer s.Stop()

	s.Notify("added to cart", SeveritySuccess)
	s.Notify("out of stock", SeverityError)

	got := s.List()
	require.Len(t, got, 2)
	assert.Equal(t, "added to cart", got[0].Message)
	assert.Equal(t, SeveritySuccess, got[0].Severity)
	assert.Equal(t, SeverityError, got[1].Severity)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestSink_Expiry(t *testing.T) {
	s := NewSink(20 * time.Millisecond)
	defer s.Stop()

	s.Notify("ephemeral", SeverityWarning)
	require.Len(t, s.List(), 1)

	assert.Eventually(t, func() bool {
		return len(s.List()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSink_Stop(t *testing.T) {
	s := NewSink(10 * time.Millisecond)
	s.Notify("first", SeveritySuccess)
	s.Stop()

	// Notifications after Stop are dropped and nothing expires anymore.
	s.Notify("late", SeverityError)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, s.List())
}

func TestNewSink_DefaultTTL(t *testing.T) {
	s := NewSink(0)
	defer s.Stop()

	s.Notify("default ttl", SeveritySuccess)
	assert.Len(t, s.List(), 1)
}
