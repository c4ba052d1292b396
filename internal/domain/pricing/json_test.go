package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalRules_TaggedDispatch(t *testing.T) {
	data := []byte(`[
		{"type": "season", "name": "Summer season", "startDate": "2026-06-01", "endDate": "2026-08-31", "percentage": "25"},
		{"type": "weekend", "name": "Weekend rate", "percentage": "15"},
		{"type": "length", "name": "Weekly discount", "minNights": 7, "percentage": "10"},
		{"type": "season", "name": "Airport fee", "startDate": "2026-01-01", "endDate": "2026-12-31", "flat": "12.50"}
	]`)

	rules, err := UnmarshalRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 4)

	season, ok := rules[0].(Season)
	require.True(t, ok)
	assert.Equal(t, "Summer season", season.Name)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), season.Start)
	assert.Equal(t, AdjustPercentage, season.Adjust.Kind)
	assert.True(t, dec("25").Equal(season.Adjust.Value))

	weekend, ok := rules[1].(Weekend)
	require.True(t, ok)
	assert.Equal(t, "Weekend rate", weekend.Name)

	length, ok := rules[2].(Length)
	require.True(t, ok)
	assert.Equal(t, 7, length.MinNights)

	flat, ok := rules[3].(Season)
	require.True(t, ok)
	assert.Equal(t, AdjustFlat, flat.Adjust.Kind)
	assert.True(t, dec("12.50").Equal(flat.Adjust.Value))
}

func TestMarshalRules_RoundTrip(t *testing.T) {
	rules := DefaultRules()

	data, err := MarshalRules(rules)
	require.NoError(t, err)

	decoded, err := UnmarshalRules(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(rules))
	for i := range rules {
		assert.Equal(t, rules[i].RuleName(), decoded[i].RuleName())
	}
	assert.Equal(t, rules[0], decoded[0]) // season windows survive the date format
}

func TestUnmarshalRules_UnknownType(t *testing.T) {
	_, err := UnmarshalRules([]byte(`[{"type": "holiday", "name": "X", "percentage": "5"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported rule type")
}

func TestUnmarshalRules_AdjustmentExclusive(t *testing.T) {
	_, err := UnmarshalRules([]byte(`[{"type": "weekend", "name": "X", "percentage": "5", "flat": "5"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = UnmarshalRules([]byte(`[{"type": "weekend", "name": "X"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either percentage or flat")
}
