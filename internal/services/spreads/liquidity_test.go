package spreads

import (
	"testing"

	"FinSpread/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByMeanOpenInterest(t *testing.T) {
	in := []models.Contract{
		contract("a", "100", "1", "2", 500, true, 30),
		contract("b", "105", "1", "2", 50, true, 30),
		contract("c", "110", "1", "2", 275, false, 30),
		contract("d", "115", "1", "2", 0, true, 30),
	}
	// mean = 825 / 4 = 206.25
	out, err := FilterByMeanOpenInterest(in)
	require.NoError(t, err)

	var got []string
	for _, c := range out {
		got = append(got, c.Description)
		assert.GreaterOrEqual(t, float64(c.OpenInterest), 206.25)
	}
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestFilterByMeanOpenInterestKeepsTies(t *testing.T) {
	in := []models.Contract{
		contract("a", "100", "1", "2", 10, true, 30),
		contract("b", "105", "1", "2", 10, true, 30),
		contract("c", "110", "1", "2", 10, true, 30),
	}
	out, err := FilterByMeanOpenInterest(in)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestFilterByMeanOpenInterestEmpty(t *testing.T) {
	_, err := FilterByMeanOpenInterest(nil)
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestFilterByMeanOpenInterestDoesNotMutateInput(t *testing.T) {
	in := []models.Contract{
		contract("a", "100", "1", "2", 1, true, 30),
		contract("b", "105", "1", "2", 9, true, 30),
	}
	_, err := FilterByMeanOpenInterest(in)
	require.NoError(t, err)
	assert.Equal(t, "a", in[0].Description)
	assert.Equal(t, "b", in[1].Description)
}
