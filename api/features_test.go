package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCoreFeatures_ZeroIsInvalid reminds maintainers that a bitset cannot use zero as a flag.
func TestCoreFeatures_ZeroIsInvalid(t *testing.T) {
	f := CoreFeatures(0)
	f = f.SetEnabled(0, true)
	require.False(t, f.IsEnabled(0))
}

func TestCoreFeatures(t *testing.T) {
	tests := []struct {
		name    string
		feature CoreFeatures
	}{
		{name: "smallest flag", feature: CoreFeatureMultiValue},
		{name: "largest declared flag", feature: CoreFeatureCustomPageSizes},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			f := CoreFeatures(0)
			require.False(t, f.IsEnabled(tc.feature))

			f = f.SetEnabled(tc.feature, true)
			require.True(t, f.IsEnabled(tc.feature))

			f = f.SetEnabled(tc.feature, false)
			require.False(t, f.IsEnabled(tc.feature))
		})
	}
}

func TestCoreFeatures_String(t *testing.T) {
	tests := []struct {
		name     string
		feature  CoreFeatures
		expected string
	}{
		{name: "none", feature: 0, expected: ""},
		{name: "multi-value", feature: CoreFeatureMultiValue, expected: "multi-value"},
		{name: "exception-handling", feature: CoreFeatureExceptionHandling, expected: "exception-handling"},
		{name: "multi-memory", feature: CoreFeatureMultiMemory, expected: "multi-memory"},
		{name: "custom-page-sizes", feature: CoreFeatureCustomPageSizes, expected: "custom-page-sizes"},
		{
			name:     "combined",
			feature:  CoreFeatureMultiValue | CoreFeatureMultiMemory,
			expected: "multi-value,multi-memory",
		},
		{name: "undefined", feature: 1 << 63, expected: ""},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.feature.String())
		})
	}
}
