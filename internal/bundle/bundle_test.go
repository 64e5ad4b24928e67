package bundle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("tx-%02d", i)
	}
	return out
}

func TestAssemblePreservesOrder(t *testing.T) {
	for _, n := range []int{1, 2, 5, 6, 7, 11, 23} {
		input := txs(n)
		bundles, err := Assemble(input, 5)
		require.NoError(t, err)

		var flat []string
		for _, b := range bundles {
			flat = append(flat, b.Transactions...)
		}
		assert.Equal(t, input, flat, "flattening bundles must reproduce input order for n=%d", n)
	}
}

func TestAssembleSizes(t *testing.T) {
	tests := []struct {
		n, cap int
		sizes  []int
	}{
		{7, 5, []int{5, 2}},
		{5, 5, []int{5}},
		{1, 5, []int{1}},
		{10, 5, []int{5, 5}},
		{4, 3, []int{3, 1}},
	}
	for _, tt := range tests {
		bundles, err := Assemble(txs(tt.n), tt.cap)
		require.NoError(t, err)
		require.Len(t, bundles, len(tt.sizes), "n=%d cap=%d", tt.n, tt.cap)
		for i, b := range bundles {
			assert.Equal(t, tt.sizes[i], len(b.Transactions))
			assert.LessOrEqual(t, len(b.Transactions), tt.cap)
			assert.Equal(t, i, b.Index)
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	bundles, err := Assemble(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestAssembleInvalidCap(t *testing.T) {
	_, err := Assemble(txs(3), 0)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	boom := errors.New("boom")

	o := Summarize(3, 0, nil)
	assert.Equal(t, OutcomeComplete, o.Kind)
	assert.Equal(t, 3, o.Succeeded)

	o = Summarize(2, 1, boom)
	assert.Equal(t, OutcomePartial, o.Kind)
	assert.Equal(t, 2, o.Succeeded)
	assert.Equal(t, 1, o.Failed)
	assert.Equal(t, boom, o.Err)

	o = Summarize(0, 4, boom)
	assert.Equal(t, OutcomeFailed, o.Kind)
	assert.Equal(t, boom, o.Err)
}

func TestResultOK(t *testing.T) {
	assert.True(t, (&Result{BundleID: "x"}).OK())
	assert.False(t, (&Result{Err: errors.New("no")}).OK())
	var nilResult *Result
	assert.False(t, nilResult.OK())
}
