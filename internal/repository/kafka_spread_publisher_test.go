package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadMessages(t *testing.T) {
	res := sampleResult()
	msgs := spreadMessages(res)
	require.Len(t, msgs, 1)
	assert.Equal(t, "SPY", string(msgs[0].Key))
	assert.Equal(t, "CALL", msgs[0].Headers["option_type"])

	ev, ok := msgs[0].Value.(SpreadEvent)
	require.True(t, ok)
	assert.Equal(t, 0, ev.Rank)
	assert.Equal(t, res.Spreads[0].LongLegDescription, ev.Spread.LongLegDescription)

	res.Spreads = nil
	assert.Nil(t, spreadMessages(res))
}
