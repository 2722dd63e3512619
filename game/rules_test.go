package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantRules(t *testing.T) {
	topo := Topology33()

	t.Run("zones", func(t *testing.T) {
		tests := []struct {
			variant   Variant
			cells     [][2]int
			symmetric bool
		}{
			{CaptureAnyCorner, [][2]int{{0, 0}, {4, 0}, {0, 4}, {4, 4}}, true},
			{CaptureCorner, [][2]int{{0, 0}}, false},
			{CaptureAt10, [][2]int{{1, 0}}, false},
			{CaptureAt20, [][2]int{{2, 0}}, false},
		}
		for _, tt := range tests {
			t.Run(tt.variant.String(), func(t *testing.T) {
				rules, err := NewVariantRules(topo, tt.variant)
				require.NoError(t, err)
				require.Equal(t, tt.variant, rules.Variant())
				require.Equal(t, tt.symmetric, rules.Symmetric())
				require.Equal(t, len(tt.cells), rules.Zone().Size())
				for _, c := range tt.cells {
					require.True(t, rules.Traps(topo.ToPos(c[0], c[1])), "(%d, %d) should trap", c[0], c[1])
				}
			})
		}
	})

	t.Run("anywhere", func(t *testing.T) {
		rules := NewStandardRules(topo)
		require.True(t, rules.Symmetric())
		require.Equal(t, topo.Size(), rules.Zone().Size())
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := NewVariantRules(topo, Variant(9))
		require.Error(t, err)
		require.False(t, Variant(9).Valid())
	})

	t.Run("symmetric zones survive the flip", func(t *testing.T) {
		for _, variant := range Variants {
			rules, err := NewVariantRules(topo, variant)
			require.NoError(t, err)
			if !rules.Symmetric() {
				continue
			}
			for pos := range topo.Size() {
				require.Equal(t, rules.Traps(pos), rules.Traps(topo.FlipPos(pos)), "%s: cell %d", variant, pos)
			}
		}
	})
}
