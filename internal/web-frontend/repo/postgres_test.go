package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-web/internal/shared/db"
	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

func TestRecordSubmissionKeepsExactStake(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	defer conn.Close()

	p := NewPostgres(conn)
	require.NoError(t, p.EnsureSchema(ctx))

	e := events.BetSlipSubmitted{
		SubmissionID: uuid.NewString(),
		SessionID:    "sid",
		UserID:       "u1",
		ItemID:       "10-match_winner-home",
		FixtureID:    10,
		BetType:      "match_winner",
		Selection:    "home",
		Stake:        "10.125",
		Odds:         1.875,
		Success:      true,
		TsUnixMs:     time.Now().UnixMilli(),
	}
	require.NoError(t, p.RecordSubmission(ctx, e))
	// mesmo id de novo não duplica
	require.NoError(t, p.RecordSubmission(ctx, e))

	var stake string
	var n int
	require.NoError(t, conn.QueryRowContext(ctx,
		`SELECT stake::text, count(*) OVER () FROM bet_slip_submissions WHERE id = $1`, e.SubmissionID,
	).Scan(&stake, &n))
	assert.Equal(t, "10.125", stake)
	assert.Equal(t, 1, n)
}
