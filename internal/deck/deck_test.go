package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoya/spade3/internal/models"
)

func TestBuildDeckSizes(t *testing.T) {
	cases := []struct {
		playerCount int
		rawSize     int
	}{
		{4, 52},
		{6, 52},
		{8, 104},
		{12, 104},
	}
	for _, tc := range cases {
		cards, err := Build(tc.playerCount)
		require.NoError(t, err, "player count %d", tc.playerCount)
		assert.Len(t, cards, tc.rawSize, "player count %d", tc.playerCount)
	}
}

func TestBuildRejectsUnsupportedCounts(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 5, 7, 10, 13, -4} {
		_, err := Build(n)
		require.Error(t, err, "player count %d", n)
		assert.ErrorIs(t, err, ErrUnsupportedPlayerCount)
	}
}

func TestBuildCardIDsAreUnique(t *testing.T) {
	for _, n := range []int{4, 8} {
		cards, err := Build(n)
		require.NoError(t, err)
		seen := make(map[string]bool, len(cards))
		for _, c := range cards {
			assert.False(t, seen[c.ID], "duplicate card id %q in %d-player deck", c.ID, n)
			seen[c.ID] = true
		}
	}
}

func TestPrepareStripsTwosForSixAndTwelve(t *testing.T) {
	cases := []struct {
		playerCount  int
		preparedSize int
	}{
		{4, 52},
		{6, 48},
		{8, 104},
		{12, 96},
	}
	for _, tc := range cases {
		cards, err := Build(tc.playerCount)
		require.NoError(t, err)
		prepared := Prepare(tc.playerCount, cards)
		assert.Len(t, prepared, tc.preparedSize, "player count %d", tc.playerCount)

		if tc.playerCount == 6 || tc.playerCount == 12 {
			for _, c := range prepared {
				assert.NotEqual(t, models.Rank("2"), c.Rank, "rank 2 should be stripped for %d players", tc.playerCount)
			}
		}
		// A prepared deck always divides evenly across the seats.
		assert.Zero(t, len(prepared)%tc.playerCount)
	}
}

func TestShuffleIsAPermutationAndDoesNotMutate(t *testing.T) {
	cards, err := Build(4)
	require.NoError(t, err)
	original := append([]models.Card(nil), cards...)

	shuffled := Shuffle(cards, rand.New(rand.NewSource(7)))

	assert.Equal(t, original, cards, "input deck must not be mutated")
	require.Len(t, shuffled, len(cards))

	seen := make(map[string]bool, len(shuffled))
	for _, c := range shuffled {
		assert.False(t, seen[c.ID], "card %q appears twice after shuffle", c.ID)
		seen[c.ID] = true
	}
	for _, c := range original {
		assert.True(t, seen[c.ID], "card %q lost by shuffle", c.ID)
	}
}
