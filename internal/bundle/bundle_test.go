package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessOrdersByQoSThenDeadline(t *testing.T) {
	critical := &Bundle{ID: "a", QoS: QoSCritical, Deadline: 500}
	low := &Bundle{ID: "b", QoS: QoSLow, Deadline: 10}
	assert.True(t, critical.Less(low), "critical outranks low regardless of deadline")
	assert.False(t, low.Less(critical))

	early := &Bundle{ID: "c", QoS: QoSNormal, Deadline: 100}
	late := &Bundle{ID: "d", QoS: QoSNormal, Deadline: 200}
	assert.True(t, early.Less(late), "same tier orders by earliest deadline")
}

func TestCostMbps(t *testing.T) {
	b := &Bundle{Size: 8000}
	assert.InDelta(t, 1.0, b.CostMbps(), 1e-9)
}

func TestNewContactValidation(t *testing.T) {
	_, err := NewContact(0, 1, 10, 20, 100, 0.99)
	require.NoError(t, err)

	cases := []struct {
		name                         string
		a, b                         int
		start, end, capacity, reliab float64
	}{
		{"self loop", 2, 2, 10, 20, 100, 0.9},
		{"end before start", 0, 1, 20, 10, 100, 0.9},
		{"end equals start", 0, 1, 10, 10, 100, 0.9},
		{"zero capacity", 0, 1, 10, 20, 0, 0.9},
		{"reliability above one", 0, 1, 10, 20, 100, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewContact(tc.a, tc.b, tc.start, tc.end, tc.capacity, tc.reliab)
			assert.Error(t, err)
		})
	}
}

func TestQoSString(t *testing.T) {
	assert.Equal(t, "critical", QoSCritical.String())
	assert.Equal(t, "low", QoSLow.String())
	assert.Equal(t, "qos(9)", QoSLevel(9).String())
}

func TestParseQoSLevel(t *testing.T) {
	for _, q := range []QoSLevel{QoSCritical, QoSHigh, QoSNormal, QoSLow} {
		got, err := ParseQoSLevel(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	_, err := ParseQoSLevel("urgent")
	assert.Error(t, err)
}
