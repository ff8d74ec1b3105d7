package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

type Repository interface {
	CreateScreenplay(ctx context.Context, sp *models.Screenplay) error
	GetScreenplayByID(ctx context.Context, id string) (*models.Screenplay, error)
	MarkProcessed(ctx context.Context, id string, processedAt time.Time) error
	ReplaceScenes(ctx context.Context, screenplayID string, scenes []models.Scene) error
	ListScenes(ctx context.Context, screenplayID string) ([]models.Scene, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateScreenplay(ctx context.Context, sp *models.Screenplay) error {
	query := `
		INSERT INTO screenplays (id, filename, file_size, content_type, s3_key,
			extracted_text, extraction_method, char_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		sp.ID,
		sp.Filename,
		sp.FileSize,
		sp.ContentType,
		sp.S3Key,
		sp.ExtractedText,
		sp.ExtractionMethod,
		sp.CharCount,
		sp.CreatedAt,
		sp.UpdatedAt,
	)
	return err
}

func (r *repository) GetScreenplayByID(ctx context.Context, id string) (*models.Screenplay, error) {
	var sp models.Screenplay
	query := `
		SELECT id, filename, file_size, content_type, s3_key, extracted_text,
		       extraction_method, char_count, created_at, updated_at, processed_at
		FROM screenplays
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &sp, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *repository) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	query := `UPDATE screenplays SET processed_at = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, processedAt, time.Now())
	return err
}

// ReplaceScenes swaps the full scene list of a screenplay in one
// transaction, keeping scene numbers contiguous on re-processing.
func (r *repository) ReplaceScenes(ctx context.Context, screenplayID string, scenes []models.Scene) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE screenplay_id = $1`, screenplayID); err != nil {
		return err
	}

	query := `
		INSERT INTO scenes (id, screenplay_id, scene_number, location, time_of_day,
			description, characters, content, page_start, page_end, duration, tag,
			vfx_needs, product_placement_opportunities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, sc := range scenes {
		characters, err := json.Marshal(sc.Characters)
		if err != nil {
			return err
		}
		vfx, err := json.Marshal(sc.VFXNeeds)
		if err != nil {
			return err
		}
		placements, err := json.Marshal(sc.ProductPlacementOpportunities)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			sc.ID,
			screenplayID,
			sc.SceneNumber,
			sc.Location,
			sc.TimeOfDay,
			sc.Description,
			string(characters),
			sc.Content,
			sc.PageStart,
			sc.PageEnd,
			sc.Duration,
			string(sc.Tag),
			string(vfx),
			string(placements),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) ListScenes(ctx context.Context, screenplayID string) ([]models.Scene, error) {
	query := `
		SELECT id, scene_number, location, time_of_day, description, characters,
		       content, page_start, page_end, duration, tag,
		       vfx_needs, product_placement_opportunities
		FROM scenes
		WHERE screenplay_id = $1
		ORDER BY scene_number
	`
	rows, err := r.db.QueryContext(ctx, query, screenplayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []models.Scene
	for rows.Next() {
		var sc models.Scene
		var characters, vfx, placements string
		if err := rows.Scan(
			&sc.ID,
			&sc.SceneNumber,
			&sc.Location,
			&sc.TimeOfDay,
			&sc.Description,
			&characters,
			&sc.Content,
			&sc.PageStart,
			&sc.PageEnd,
			&sc.Duration,
			&sc.Tag,
			&vfx,
			&placements,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(characters), &sc.Characters); err != nil {
			return nil, fmt.Errorf("bad characters payload for scene %s: %w", sc.ID, err)
		}
		if err := json.Unmarshal([]byte(vfx), &sc.VFXNeeds); err != nil {
			return nil, fmt.Errorf("bad vfx payload for scene %s: %w", sc.ID, err)
		}
		if err := json.Unmarshal([]byte(placements), &sc.ProductPlacementOpportunities); err != nil {
			return nil, fmt.Errorf("bad placement payload for scene %s: %w", sc.ID, err)
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}
