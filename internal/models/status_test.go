package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"ongoing", "finished", "cancelled"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, s.String())
	}

	for _, raw := range []string{"", "done", "ONGOING", " ongoing"} {
		_, err := ParseStatus(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusOngoing, StatusFinished}:  true,
		{StatusOngoing, StatusCancelled}: true,
		{StatusCancelled, StatusOngoing}: true,
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition("bogus", StatusOngoing))
	assert.False(t, CanTransition(StatusOngoing, "bogus"))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusFinished.Terminal())
	assert.False(t, StatusOngoing.Terminal())
	assert.False(t, StatusCancelled.Terminal())
	assert.False(t, Status("bogus").Terminal())
}

func TestSources(t *testing.T) {
	assert.Equal(t, []Status{StatusCancelled}, Sources(StatusOngoing))
	assert.Equal(t, []Status{StatusOngoing}, Sources(StatusFinished))
	assert.Equal(t, []Status{StatusOngoing}, Sources(StatusCancelled))
}

func TestNextReturnsCopy(t *testing.T) {
	next := StatusOngoing.Next()
	require.Len(t, next, 2)
	next[0] = StatusCancelled

	assert.Equal(t, []Status{StatusFinished, StatusCancelled}, StatusOngoing.Next())
	assert.Empty(t, StatusFinished.Next())
}
