package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"graphology-api/internal/domain"
)

type ProfileRepository interface {
	// Ensure crea el perfil si no existe; no modifica uno existente.
	Ensure(ctx context.Context, profile domain.Profile) error
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	// UpdateStats aplica apply al perfil actual de forma atómica y guarda estadísticas
	// y el vector de rasgos más reciente. Devuelve pgx.ErrNoRows si el perfil no existe.
	UpdateStats(ctx context.Context, id string, apply func(domain.Profile) domain.Profile) error
	// FindSimilar devuelve perfiles cercanos por distancia euclídea del vector de rasgos.
	FindSimilar(ctx context.Context, id string, traits domain.PersonalityTraits, k int) ([]domain.SimilarProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Ensure(ctx context.Context, profile domain.Profile) error {
	const query = `
		INSERT INTO profiles (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

const profileColumns = `id, email, name, total_analyses, current_streak, average_score,
	baseline_traits, latest_traits, last_analysis_date, created_at, updated_at`

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// UpdateStats bloquea la fila del perfil, aplica apply sobre el valor leído y guarda
// el resultado en la misma transacción. Dos análisis simultáneos se serializan.
func (r *PgProfileRepository) UpdateStats(ctx context.Context, id string, apply func(domain.Profile) domain.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const selectQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`
	current, err := scanProfile(tx.QueryRow(ctx, selectQuery, id))
	if err != nil {
		return err
	}
	profile := apply(current)

	const updateQuery = `
		UPDATE profiles
		SET total_analyses = $2,
			current_streak = $3,
			average_score = $4,
			baseline_traits = COALESCE(baseline_traits, $5),
			latest_traits = $6,
			trait_vector = $7,
			last_analysis_date = $8,
			updated_at = $9
		WHERE id = $1
	`
	var vec interface{}
	if profile.LatestTraits != nil {
		vec = TraitVector(*profile.LatestTraits)
	}
	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	if _, err := tx.Exec(ctx, updateQuery,
		id,
		profile.TotalAnalyses,
		profile.CurrentStreak,
		profile.AverageScore,
		profile.BaselineTraits,
		profile.LatestTraits,
		vec,
		profile.LastAnalysisDate,
		updatedAt,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.TotalAnalyses,
		&p.CurrentStreak,
		&p.AverageScore,
		&p.BaselineTraits,
		&p.LatestTraits,
		&p.LastAnalysisDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (r *PgProfileRepository) FindSimilar(ctx context.Context, id string, traits domain.PersonalityTraits, k int) ([]domain.SimilarProfile, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT id, name, latest_traits, trait_vector <-> $2 AS distance
		FROM profiles
		WHERE id <> $1 AND trait_vector IS NOT NULL
		ORDER BY trait_vector <-> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, id, TraitVector(traits), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSimilar(rows)
}

// TraitVector proyecta los rasgos al vector de 8 dimensiones en orden canónico.
func TraitVector(t domain.PersonalityTraits) pgvector.Vector {
	values := t.Values()
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return pgvector.NewVector(vec)
}

func scanSimilar(rows pgxRows) ([]domain.SimilarProfile, error) {
	out := []domain.SimilarProfile{}
	for rows.Next() {
		var s domain.SimilarProfile
		if err := rows.Scan(&s.ProfileID, &s.Name, &s.Traits, &s.Distance); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
