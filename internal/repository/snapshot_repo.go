package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"graphology-api/internal/domain"
)

// SnapshotRepository persiste el promedio diario de rasgos por usuario.
type SnapshotRepository interface {
	// Upsert reemplaza el snapshot del día si ya existe.
	Upsert(ctx context.Context, snapshot domain.PersonalitySnapshot) error
	// ListSince devuelve snapshots con fecha >= since, en orden ascendente.
	ListSince(ctx context.Context, userID string, since time.Time) ([]domain.PersonalitySnapshot, error)
}

type PgSnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewPgSnapshotRepository(pool *pgxpool.Pool) *PgSnapshotRepository {
	return &PgSnapshotRepository{pool: pool}
}

func (r *PgSnapshotRepository) Upsert(ctx context.Context, snapshot domain.PersonalitySnapshot) error {
	const query = `
		INSERT INTO personality_snapshots (id, user_id, snapshot_date, avg_traits, analysis_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, snapshot_date)
		DO UPDATE SET
			avg_traits = EXCLUDED.avg_traits,
			analysis_count = EXCLUDED.analysis_count,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.SnapshotDate,
		snapshot.AvgTraits,
		snapshot.AnalysisCount,
		snapshot.UpdatedAt,
	)
	return err
}

func (r *PgSnapshotRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.PersonalitySnapshot, error) {
	const query = `
		SELECT id, user_id, snapshot_date, avg_traits, analysis_count, updated_at
		FROM personality_snapshots
		WHERE user_id = $1 AND snapshot_date >= $2
		ORDER BY snapshot_date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows pgxRows) ([]domain.PersonalitySnapshot, error) {
	snapshots := []domain.PersonalitySnapshot{}
	for rows.Next() {
		var s domain.PersonalitySnapshot
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.SnapshotDate,
			&s.AvgTraits,
			&s.AnalysisCount,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
