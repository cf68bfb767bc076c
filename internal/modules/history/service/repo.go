package service

import (
	"context"
	"screener_bot/internal/models"
	"screener_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const createTable = `
CREATE TABLE IF NOT EXISTS signals (
	id           BIGSERIAL PRIMARY KEY,
	symbol       TEXT NOT NULL,
	signal_type  TEXT NOT NULL,
	triggered    INT NOT NULL,
	total        INT NOT NULL,
	price        DOUBLE PRECISION NOT NULL,
	price_change DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repo — история отправленных сигналов в postgres.
type Repo struct {
	tx *db.PgTxManager
}

func NewRepo(tx *db.PgTxManager) *Repo {
	return &Repo{tx: tx}
}

// Migrate создаёт таблицу signals, если её нет.
func (r *Repo) Migrate(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Repo.Migrate")
		}
	}()
	_, err = r.tx.Conn().Exec(ctx, createTable)
	return
}

// Record пишет один отправленный сигнал.
func (r *Repo) Record(ctx context.Context, v models.Verdict) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Repo.Record")
		}
	}()
	return r.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO signals (symbol, signal_type, triggered, total, price, price_change)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			v.Symbol, string(v.Type), v.Triggered, v.Total, v.Price, v.PriceChange,
		)
		return err
	})
}

// Last возвращает n последних сигналов, новые первыми.
func (r *Repo) Last(ctx context.Context, n int) (out []models.SignalRecord, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Repo.Last")
		}
	}()
	rows, err := r.tx.Conn().Query(ctx,
		`SELECT id, symbol, signal_type, triggered, total, price, price_change, created_at
		 FROM signals ORDER BY id DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.SignalRecord
		var typ string
		if err := rows.Scan(&rec.ID, &rec.Symbol, &typ, &rec.Triggered, &rec.Total,
			&rec.Price, &rec.PriceChange, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Type = models.SignalType(typ)
		out = append(out, rec)
	}
	return out, rows.Err()
}
