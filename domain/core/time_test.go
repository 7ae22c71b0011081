package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	ts := Now()
	require.False(t, ts.IsZero())

	data, err := json.Marshal(ts)
	require.NoError(t, err)

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Time().Equal(back.Time()))
	assert.Equal(t, time.UTC, back.Time().Location())
}

func TestTimestamp_RejectsNonString(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
