package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const videoEntryColumns = `id, title, embed_id, tiktok_username, thumbnail_url, section, platform, display_order, is_visible, youtube_id, category, created_at, updated_at`

// VideoEntryFilters controls List queries. Ordering is always
// (section, display_order); the showcase relies on the fetch layer for order.
type VideoEntryFilters struct {
	Section  models.Section
	Platform models.Platform
	Visible  *bool
	Limit    int
	Offset   int
}

// VideoEntryRepository defines operations for managing video entries.
type VideoEntryRepository interface {
	// Create inserts a new entry, assigning its ID and a display_order of
	// (current count of entries in the same section) + 1.
	Create(ctx context.Context, entry *models.VideoEntry) error

	// GetByID retrieves a single entry.
	GetByID(ctx context.Context, id uuid.UUID) (*models.VideoEntry, error)

	// List retrieves entries ordered by (section, display_order) along with
	// the total count matching the filters.
	List(ctx context.Context, filters *VideoEntryFilters) ([]*models.VideoEntry, int, error)

	// ListVisible retrieves all visible entries ordered by (section, display_order).
	ListVisible(ctx context.Context) ([]*models.VideoEntry, error)

	// Update replaces the editable fields of an entry and stamps updated_at.
	// display_order is never touched.
	Update(ctx context.Context, entry *models.VideoEntry) error

	// Delete removes an entry. Remaining entries keep their display_order;
	// gaps are permitted.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountBySection returns the number of entries in a section.
	CountBySection(ctx context.Context, section models.Section) (int, error)

	// SetThumbnailURL stores a fetched thumbnail without touching other fields.
	SetThumbnailURL(ctx context.Context, id uuid.UUID, thumbnailURL string) error
}

type videoEntryRepository struct {
	pool *pgxpool.Pool
}

// NewVideoEntryRepository creates a new VideoEntryRepository.
func NewVideoEntryRepository(pool *pgxpool.Pool) VideoEntryRepository {
	return &videoEntryRepository{pool: pool}
}

func (r *videoEntryRepository) Create(ctx context.Context, entry *models.VideoEntry) error {
	// The per-section count and the insert happen in one statement so two
	// concurrent creates in the same section cannot both read the same count
	// outside the insert. Orders are never renumbered on delete, so gaps and
	// repeats after deletion are acceptable.
	query := `
		INSERT INTO video_entries (title, embed_id, tiktok_username, thumbnail_url, section, platform, display_order, is_visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COUNT(*) + 1 FROM video_entries WHERE section = $5),
			$7, $8, $9)
		RETURNING id, display_order
	`

	err := r.pool.QueryRow(ctx, query,
		entry.Title,
		entry.EmbedID,
		entry.TikTokUsername,
		entry.ThumbnailURL,
		entry.Section,
		entry.Platform,
		entry.IsVisible,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(
		&entry.ID,
		&entry.DisplayOrder,
	)

	if err != nil {
		return db.WrapError(err, "create video entry")
	}

	return nil
}

func (r *videoEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VideoEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM video_entries
		WHERE id = $1
	`, videoEntryColumns)

	entry := &models.VideoEntry{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Title,
		&entry.EmbedID,
		&entry.TikTokUsername,
		&entry.ThumbnailURL,
		&entry.Section,
		&entry.Platform,
		&entry.DisplayOrder,
		&entry.IsVisible,
		&entry.LegacyYouTubeID,
		&entry.LegacyCategory,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get video entry by id")
	}

	return entry, nil
}

func (r *videoEntryRepository) List(ctx context.Context, filters *VideoEntryFilters) ([]*models.VideoEntry, int, error) {
	args := []interface{}{}
	argPos := 1

	whereClause := ""
	addCondition := func(cond string, value interface{}) {
		if whereClause == "" {
			whereClause = "WHERE "
		} else {
			whereClause += " AND "
		}
		whereClause += fmt.Sprintf(cond, argPos)
		args = append(args, value)
		argPos++
	}

	if filters.Section != "" {
		addCondition("section = $%d", filters.Section)
	}
	if filters.Platform != "" {
		addCondition("platform = $%d", filters.Platform)
	}
	if filters.Visible != nil {
		addCondition("is_visible = $%d", *filters.Visible)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM video_entries %s", whereClause)
	var total int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, db.WrapError(err, "count video entries")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM video_entries
		%s
		ORDER BY section, display_order
		LIMIT $%d OFFSET $%d
	`, videoEntryColumns, whereClause, argPos, argPos+1)

	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list video entries")
	}
	defer rows.Close()

	entries, err := scanVideoEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *videoEntryRepository) ListVisible(ctx context.Context) ([]*models.VideoEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM video_entries
		WHERE is_visible
		ORDER BY section, display_order
	`, videoEntryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list visible video entries")
	}
	defer rows.Close()

	return scanVideoEntries(rows)
}

func (r *videoEntryRepository) Update(ctx context.Context, entry *models.VideoEntry) error {
	now := time.Now()
	query := `
		UPDATE video_entries
		SET title = $1,
		    embed_id = $2,
		    tiktok_username = $3,
		    thumbnail_url = $4,
		    section = $5,
		    platform = $6,
		    is_visible = $7,
		    updated_at = $8
		WHERE id = $9
		RETURNING display_order, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.Title,
		entry.EmbedID,
		entry.TikTokUsername,
		entry.ThumbnailURL,
		entry.Section,
		entry.Platform,
		entry.IsVisible,
		now,
		entry.ID,
	).Scan(
		&entry.DisplayOrder,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "update video entry")
	}

	return nil
}

func (r *videoEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM video_entries WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return db.WrapError(err, "delete video entry")
	}

	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video entry")
	}

	return nil
}

func (r *videoEntryRepository) CountBySection(ctx context.Context, section models.Section) (int, error) {
	query := `SELECT COUNT(*) FROM video_entries WHERE section = $1`

	var count int
	err := r.pool.QueryRow(ctx, query, section).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count video entries by section")
	}

	return count, nil
}

func (r *videoEntryRepository) SetThumbnailURL(ctx context.Context, id uuid.UUID, thumbnailURL string) error {
	query := `
		UPDATE video_entries
		SET thumbnail_url = $1,
		    updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, thumbnailURL, time.Now(), id)
	if err != nil {
		return db.WrapError(err, "set thumbnail url")
	}

	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "set thumbnail url")
	}

	return nil
}

// Helper function to scan multiple entries from query results
func scanVideoEntries(rows pgx.Rows) ([]*models.VideoEntry, error) {
	var entries []*models.VideoEntry

	for rows.Next() {
		entry := &models.VideoEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.EmbedID,
			&entry.TikTokUsername,
			&entry.ThumbnailURL,
			&entry.Section,
			&entry.Platform,
			&entry.DisplayOrder,
			&entry.IsVisible,
			&entry.LegacyYouTubeID,
			&entry.LegacyCategory,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video entries: %w", err)
	}

	return entries, nil
}
