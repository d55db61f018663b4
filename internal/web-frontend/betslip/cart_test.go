package betslip

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStake(t *testing.T) {
	valid := map[string]string{"10": "10", " 2.50 ": "2.5", "0.01": "0.01"}
	for in, want := range valid {
		d, err := ParseStake(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String())
	}
	for _, in := range []string{
		"", "   ", "0", "-1", "NaN", "Inf", "1,5", "ten",
		"1e200000000", "1e-200000000", "2000000000", "0.0000000000001",
		"1000000000000000000000000",
	} {
		_, err := ParseStake(in)
		assert.ErrorIs(t, err, ErrInvalidStake, in)
	}
}

func TestHugeStakeKeepsSummaryCheap(t *testing.T) {
	c := NewCart()
	it, err := NewItem(Selection{FixtureID: 1, HomeTeam: "A", AwayTeam: "B", BetType: "Match Winner", Selection: "A", Odds: 2})
	require.NoError(t, err)
	c.Add(it)
	require.NoError(t, c.SetStake(it.ID, "1e200000000"))

	done := make(chan Summary, 1)
	go func() { done <- c.Summary() }()
	select {
	case s := <-done:
		assert.False(t, s.CanSubmitAll)
		assert.False(t, s.Lines[0].Valid)
		assert.Equal(t, "0.00", s.TotalStake)
	case <-time.After(2 * time.Second):
		t.Fatal("summary of an oversized stake did not return")
	}

	_, err = c.ValidateAll()
	assert.ErrorIs(t, err, ErrInvalidStakes)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "match_winner", NormalizeBetType("Match Winner"))
	assert.Equal(t, "both_teams_to_score", NormalizeBetType("Both  Teams\tTo Score"))
	assert.Equal(t, "draw", NormalizeSelection("Draw"))
}

func TestSummaryRoundsOnlyForDisplay(t *testing.T) {
	c := NewCart()
	a, err := NewItem(Selection{FixtureID: 1, HomeTeam: "A", AwayTeam: "B", BetType: "Match Winner", Selection: "A", Odds: 1.333})
	require.NoError(t, err)
	b, err := NewItem(Selection{FixtureID: 2, HomeTeam: "C", AwayTeam: "D", BetType: "Match Winner", Selection: "D", Odds: 1.333})
	require.NoError(t, err)
	c.Add(a)
	c.Add(b)
	require.NoError(t, c.SetStake(a.ID, "1"))
	require.NoError(t, c.SetStake(b.ID, "1"))

	s := c.Summary()
	// 1.333 + 1.333 = 2.666 -> 2.67; somar as linhas arredondadas daria 2.66
	assert.Equal(t, "1.33", s.Lines[0].PotentialWin)
	assert.Equal(t, "2.67", s.TotalPotentialWin)
	assert.Equal(t, "2.00", s.TotalStake)
	assert.True(t, s.CanSubmitAll)

	require.NoError(t, c.SetStake(b.ID, ""))
	s = c.Summary()
	assert.False(t, s.CanSubmitAll)
	assert.False(t, s.Lines[1].Valid)
}

func TestPotentialWinExact(t *testing.T) {
	got := PotentialWin(decimal.RequireFromString("3.3"), 1.1)
	assert.Equal(t, "3.63", got.String())
}

func TestSetStakeUnknownItem(t *testing.T) {
	c := NewCart()
	assert.ErrorIs(t, c.SetStake("nope", "1"), ErrItemNotFound)
}
