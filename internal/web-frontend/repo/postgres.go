package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS bet_slip_submissions (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	item_id     TEXT NOT NULL,
	fixture_id  BIGINT NOT NULL,
	bet_type    TEXT NOT NULL,
	selection   TEXT NOT NULL,
	stake       NUMERIC NOT NULL,
	odds        NUMERIC NOT NULL,
	batch       BOOLEAN NOT NULL,
	success     BOOLEAN NOT NULL,
	message     TEXT,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS bet_slip_submissions_user_idx ON bet_slip_submissions (user_id, created_at DESC);
`

// Postgres guarda a trilha de auditoria dos envios do bet slip.
// stake e odds ficam em NUMERIC sem escala fixa: o valor gravado é o texto enviado.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna o repositório de auditoria
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela de auditoria se ainda não existir
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// RecordSubmission insere uma tentativa de envio; o id do evento é a chave primária
func (p *Postgres) RecordSubmission(ctx context.Context, e events.BetSlipSubmitted) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bet_slip_submissions
			(id,session_id,user_id,item_id,fixture_id,bet_type,selection,stake,odds,batch,success,message,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO NOTHING`,
		e.SubmissionID, e.SessionID, e.UserID, e.ItemID, e.FixtureID, e.BetType, e.Selection,
		e.Stake, e.Odds, e.Batch, e.Success, e.Message, time.UnixMilli(e.TsUnixMs).UTC(),
	)
	return err
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
