package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocsRepo persists per-user per-store snapshot documents in postgres.
// Saves are upserts with key-level JSONB merge, so a partial remote document
// is tolerated rather than clobbered.
type DocsRepo struct {
	db *pgxpool.Pool
}

func NewDocsRepo(db *pgxpool.Pool) *DocsRepo {
	return &DocsRepo{db: db}
}

func (r *DocsRepo) Save(ctx context.Context, userID, storeType string, snapshot []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.syncdocs.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO user_documents (user_id, store_type, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, store_type) DO UPDATE
			SET data = user_documents.data || EXCLUDED.data,
				updated_at = now()`,
		userID, storeType, snapshot,
	)
	if err != nil {
		return fmt.Errorf("upsert %s document: %w", storeType, err)
	}
	return nil
}

func (r *DocsRepo) Load(ctx context.Context, userID, storeType string) (_ []byte, found bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.syncdocs.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var data []byte
	err = r.db.QueryRow(ctx,
		`SELECT data FROM user_documents WHERE user_id = $1 AND store_type = $2`,
		userID, storeType,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s document: %w", storeType, err)
	}
	return data, true, nil
}
