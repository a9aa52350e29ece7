package economy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ResourceKind
		wantErr bool
	}{
		{"exact", "Food", Food, false},
		{"lowercase", "firewood", Firewood, false},
		{"upper with spaces", " TOOLS ", Tools, false},
		{"medicine", "Medicine", Medicine, false},
		{"unknown", "Gold", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResourceKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownResource))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStockpileArithmetic(t *testing.T) {
	var s Stockpile
	s.Set(Food, 1000)
	s.Add(Food, -2000)
	s.Add(Tools, 50)

	assert.Equal(t, -1000, s.Get(Food))
	assert.Equal(t, 50, s.Get(Tools))
	assert.Equal(t, 0, s.Get(Medicine))

	res := s.Resources()
	require.Len(t, res, NumResources)
	assert.Equal(t, "Food", res[0].Name())
	assert.Equal(t, -1000, res[0].Quantity)
}

func TestStockpileFromNames(t *testing.T) {
	s, err := StockpileFromNames(map[string]int{"Food": 1000, "Firewood": 500})
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Get(Food))
	assert.Equal(t, 500, s.Get(Firewood))
	assert.Equal(t, 0, s.Get(Tools))

	_, err = StockpileFromNames(map[string]int{"Stone": 3})
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestBuildingIsHospital(t *testing.T) {
	assert.True(t, NewBuilding("Hospital", 20).IsHospital())
	assert.False(t, NewBuilding("School", 20).IsHospital())
	assert.Equal(t, 0, NewBuilding("Hospital", 20).CurrentPopulation)
}
