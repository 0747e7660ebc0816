package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
)

// ProjectRepository is the postgres implementation of repository.ProjectRepository.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository wraps an open postgres handle.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Close() error {
	return r.db.Close()
}

const projectColumns = `id, owner_id, source_url, file_name, file_size, duration, format, kind,
	display_name, category, subcategory, status, transcription_status, content_generation_status,
	error, job_errors, transcript, summary, key_moments, titles, social_posts, hashtags,
	slide_outline, youtube_timestamps, quiz, flashcard_set_id, engagement_pack, clinical_scenarios,
	created_at, updated_at, deleted_at`

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.ProjectUploaded
	}
	if p.JobStatus.Transcription == "" {
		p.JobStatus.Transcription = model.PhasePending
	}
	if p.JobStatus.ContentGeneration == "" {
		p.JobStatus.ContentGeneration = model.PhasePending
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, source_url, file_name, file_size, duration, format, kind,
			display_name, category, subcategory, status, transcription_status, content_generation_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.OwnerID, p.SourceURL, p.FileName, p.FileSize, p.Duration, p.Format, p.Kind,
		p.DisplayName, p.Category, p.Subcategory, p.Status,
		p.JobStatus.Transcription, p.JobStatus.ContentGeneration, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanProject(row)
}

func (r *ProjectRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]model.Project, error) {
	if len(ownerIDs) == 0 {
		return []model.Project{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE owner_id = ANY($1) AND deleted_at IS NULL
		ORDER BY created_at DESC`, pq.Array(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) CountByOwner(ctx context.Context, ownerID string, includeDeleted bool) (int, error) {
	query := `SELECT COUNT(*) FROM projects WHERE owner_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

func (r *ProjectRepository) UpdateMetadata(ctx context.Context, id, displayName, category, subcategory string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET display_name = $1, category = $2, subcategory = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`,
		displayName, category, subcategory, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update project metadata: %w", err)
	}
	return requireRow(res)
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status model.ProjectStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	return requireRow(res)
}

func (r *ProjectRepository) UpdateJobStatus(ctx context.Context, id string, patch model.JobStatusPatch) error {
	if patch.Empty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin job status update: %w", err)
	}
	defer tx.Rollback()

	var current model.JobStatus
	var overall model.ProjectStatus
	err = tx.QueryRowContext(ctx, `
		SELECT transcription_status, content_generation_status, status
		FROM projects WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).
		Scan(&current.Transcription, &current.ContentGeneration, &overall)
	if err == sql.ErrNoRows {
		return repository.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("read job status: %w", err)
	}

	if patch.Transcription != nil {
		current.Transcription = *patch.Transcription
	}
	if patch.ContentGeneration != nil {
		current.ContentGeneration = *patch.ContentGeneration
	}
	if current.ContentGeneration != model.PhasePending && current.Transcription != model.PhaseCompleted {
		return repository.ErrPhaseOrder
	}

	if overall != model.ProjectFailed &&
		current.Transcription == model.PhaseCompleted &&
		current.ContentGeneration == model.PhaseCompleted {
		overall = model.ProjectCompleted
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET transcription_status = $1, content_generation_status = $2, status = $3, updated_at = $4
		WHERE id = $5`,
		current.Transcription, current.ContentGeneration, overall, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("write job status: %w", err)
	}
	return tx.Commit()
}

func (r *ProjectRepository) SaveContent(ctx context.Context, id string, patch *model.ContentPatch) error {
	if patch == nil || patch.Empty() {
		return nil
	}

	sets := make([]string, 0, 12)
	args := make([]interface{}, 0, 13)
	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("transcript", patch.Transcript)
	add("summary", patch.Summary)
	add("key_moments", patch.KeyMoments)
	add("titles", patch.Titles)
	add("social_posts", patch.SocialPosts)
	add("hashtags", patch.Hashtags)
	add("slide_outline", patch.SlideOutline)
	add("youtube_timestamps", patch.YouTubeTimestamps)
	add("quiz", patch.Quiz)
	add("flashcard_set_id", patch.FlashcardSetID)
	add("engagement_pack", patch.EngagementPack)
	if patch.ClinicalScenarios != nil {
		encoded, err := json.Marshal(patch.ClinicalScenarios)
		if err != nil {
			return fmt.Errorf("encode clinical scenarios: %w", err)
		}
		args = append(args, string(encoded))
		sets = append(sets, fmt.Sprintf("clinical_scenarios = $%d", len(args)))
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d AND deleted_at IS NULL`,
			strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return requireRow(res)
}

func (r *ProjectRepository) RecordError(ctx context.Context, id string, procErr *model.ProcessingError) error {
	if procErr.OccurredAt.IsZero() {
		procErr.OccurredAt = time.Now().UTC()
	}
	encoded, err := json.Marshal(procErr)
	if err != nil {
		return fmt.Errorf("encode error record: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET error = $1, status = $2, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL`,
		string(encoded), model.ProjectFailed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("record error: %w", err)
	}
	return requireRow(res)
}

func (r *ProjectRepository) SaveJobErrors(ctx context.Context, id string, jobErrors map[string]string) error {
	if len(jobErrors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin job errors update: %w", err)
	}
	defer tx.Rollback()

	var stored sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT job_errors FROM projects WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).Scan(&stored)
	if err == sql.ErrNoRows {
		return repository.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("read job errors: %w", err)
	}

	merged := map[string]string{}
	if stored.Valid && stored.String != "" {
		if err := json.Unmarshal([]byte(stored.String), &merged); err != nil {
			return fmt.Errorf("decode job errors: %w", err)
		}
	}
	for job, msg := range jobErrors {
		merged[job] = msg
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode job errors: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE projects SET job_errors = $1, updated_at = $2 WHERE id = $3`,
		string(encoded), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("write job errors: %w", err)
	}
	return tx.Commit()
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("soft delete project: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrProjectNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var errorJSON, jobErrorsJSON, scenariosJSON sql.NullString
	var transcript, summary, keyMoments, titles, socialPosts, hashtags sql.NullString
	var slideOutline, youtubeTimestamps, quiz, flashcardSetID, engagementPack sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.SourceURL, &p.FileName, &p.FileSize, &p.Duration, &p.Format, &p.Kind,
		&p.DisplayName, &p.Category, &p.Subcategory, &p.Status,
		&p.JobStatus.Transcription, &p.JobStatus.ContentGeneration,
		&errorJSON, &jobErrorsJSON,
		&transcript, &summary, &keyMoments, &titles, &socialPosts, &hashtags,
		&slideOutline, &youtubeTimestamps, &quiz, &flashcardSetID, &engagementPack, &scenariosJSON,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if errorJSON.Valid && errorJSON.String != "" {
		var procErr model.ProcessingError
		if err := json.Unmarshal([]byte(errorJSON.String), &procErr); err != nil {
			return nil, fmt.Errorf("decode error record: %w", err)
		}
		p.Error = &procErr
	}
	if jobErrorsJSON.Valid && jobErrorsJSON.String != "" {
		if err := json.Unmarshal([]byte(jobErrorsJSON.String), &p.JobErrors); err != nil {
			return nil, fmt.Errorf("decode job errors: %w", err)
		}
	}
	if scenariosJSON.Valid && scenariosJSON.String != "" {
		if err := json.Unmarshal([]byte(scenariosJSON.String), &p.Content.ClinicalScenarios); err != nil {
			return nil, fmt.Errorf("decode clinical scenarios: %w", err)
		}
	}

	assign := func(dst **string, src sql.NullString) {
		if src.Valid {
			value := src.String
			*dst = &value
		}
	}
	assign(&p.Content.Transcript, transcript)
	assign(&p.Content.Summary, summary)
	assign(&p.Content.KeyMoments, keyMoments)
	assign(&p.Content.Titles, titles)
	assign(&p.Content.SocialPosts, socialPosts)
	assign(&p.Content.Hashtags, hashtags)
	assign(&p.Content.SlideOutline, slideOutline)
	assign(&p.Content.YouTubeTimestamps, youtubeTimestamps)
	assign(&p.Content.Quiz, quiz)
	assign(&p.Content.FlashcardSetID, flashcardSetID)
	assign(&p.Content.EngagementPack, engagementPack)

	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}
	return &p, nil
}
