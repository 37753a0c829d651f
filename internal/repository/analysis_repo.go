package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"graphology-api/internal/domain"
)

// AnalysisRepository define el contrato de persistencia para registros de análisis.
// Los registros son inmutables: no hay Update.
type AnalysisRepository interface {
	Create(ctx context.Context, record domain.AnalysisRecord) error
	GetByID(ctx context.Context, userID, id string) (domain.AnalysisRecord, error)
	GetLatest(ctx context.Context, userID string) (domain.AnalysisRecord, error)
	// ListRecent devuelve los últimos registros, del más nuevo al más viejo.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error)
	// ListBetween devuelve registros con created_at en [from, to), en orden ascendente.
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.AnalysisRecord, error)
}

type PgAnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalysisRepository(pool *pgxpool.Pool) *PgAnalysisRepository {
	return &PgAnalysisRepository{pool: pool}
}

const analysisColumns = `id, user_id, features, traits, overall_score, confidence_score, traits_derived, derivation_version, narrative, summary, processing_time_ms, created_at`

func (r *PgAnalysisRepository) Create(ctx context.Context, record domain.AnalysisRecord) error {
	const query = `
		INSERT INTO handwriting_analyses (` + analysisColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	narrative := record.Narrative
	if len(narrative) == 0 {
		narrative = json.RawMessage(`{}`)
	}

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Features,
		record.Traits,
		record.OverallScore,
		record.ConfidenceScore,
		record.TraitsDerived,
		record.DerivationVersion,
		narrative,
		record.Summary,
		record.ProcessingTimeMs,
		record.CreatedAt,
	)
	return err
}

func (r *PgAnalysisRepository) GetByID(ctx context.Context, userID, id string) (domain.AnalysisRecord, error) {
	const query = `
		SELECT ` + analysisColumns + `
		FROM handwriting_analyses
		WHERE user_id = $1 AND id = $2
	`
	rec, err := scanAnalysis(r.pool.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnalysisRecord{}, err
	}
	return rec, err
}

func (r *PgAnalysisRepository) GetLatest(ctx context.Context, userID string) (domain.AnalysisRecord, error) {
	const query = `
		SELECT ` + analysisColumns + `
		FROM handwriting_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanAnalysis(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnalysisRecord{}, err
	}
	return rec, err
}

func (r *PgAnalysisRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT ` + analysisColumns + `
		FROM handwriting_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func (r *PgAnalysisRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.AnalysisRecord, error) {
	const query = `
		SELECT ` + analysisColumns + `
		FROM handwriting_analyses
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	var narrative []byte
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Features,
		&rec.Traits,
		&rec.OverallScore,
		&rec.ConfidenceScore,
		&rec.TraitsDerived,
		&rec.DerivationVersion,
		&narrative,
		&rec.Summary,
		&rec.ProcessingTimeMs,
		&rec.CreatedAt,
	); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if len(narrative) > 0 {
		rec.Narrative = json.RawMessage(narrative)
	}
	return rec, nil
}

func scanAnalyses(rows pgxRows) ([]domain.AnalysisRecord, error) {
	records := []domain.AnalysisRecord{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// pgxRows es una interfaz mínima para escanear filas de pgx y simplificar tests.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
