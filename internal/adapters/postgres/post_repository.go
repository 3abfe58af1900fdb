package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/platform/postgres"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
)

// authorIsAdminExpr computes the live admin flag for a post's author at
// read time, so role changes are visible on the next read.
const authorIsAdminExpr = `EXISTS (
	SELECT 1 FROM user_roles ur
	JOIN roles r ON r.id = ur.role_id
	WHERE ur.user_id = p.author_id AND r.name = 'ADMIN'
) AS author_is_admin`

// PostRepository implements ports.PostRepository using PostgreSQL
type PostRepository struct {
	postgres.BaseRepository
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *pgxpool.Pool) ports.PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *PostRepository) WithTx(tx pgx.Tx) ports.PostRepository {
	return &PostRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query, args, err := r.SB.
		Insert("posts").
		Columns(
			"id", "title", "description", "content",
			"category_id", "author_id", "created_at", "updated_at",
		).
		Values(
			pgtype.UUID{Bytes: post.ID, Valid: true},
			post.Title,
			post.Description,
			post.Content,
			pgtype.UUID{Bytes: post.CategoryID, Valid: true},
			uuidOrNull(post.AuthorID),
			pgtype.Timestamptz{Time: post.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: post.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Create: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

// AddMedia attaches a stored file to a post
func (r *PostRepository) AddMedia(ctx context.Context, media *domain.Media) error {
	query, args, err := r.SB.
		Insert("media").
		Columns("id", "post_id", "file_url", "created_at").
		Values(
			pgtype.UUID{Bytes: media.ID, Valid: true},
			pgtype.UUID{Bytes: media.PostID, Valid: true},
			media.FileURL,
			pgtype.Timestamptz{Time: media.CreatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.AddMedia: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.AddMedia: %w", err)
	}
	return nil
}

// FindByID retrieves a post with its live author flags, likers and media
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	query, args, err := r.detailQuery().
		Where(sq.Eq{"p.id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: build query: %w", err)
	}

	row := r.DB.QueryRow(ctx, query, args...)
	detail, err := scanPostDetail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}

	if err := r.attachLikersAndMedia(ctx, []*ports.PostDetail{detail}); err != nil {
		return nil, err
	}
	return detail, nil
}

// Update updates an existing post in the database
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	query, args, err := r.SB.
		Update("posts").
		Set("title", post.Title).
		Set("description", post.Description).
		Set("content", post.Content).
		Set("category_id", pgtype.UUID{Bytes: post.CategoryID, Valid: true}).
		Set("updated_at", pgtype.Timestamptz{Time: post.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: post.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// Delete removes a post; comments, likes and media rows cascade
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// List retrieves post details matching the filter, paged and sorted
func (r *PostRepository) List(ctx context.Context, filter ports.ListFilter, page pagination.Request) ([]*ports.PostDetail, error) {
	qb := r.detailQuery()
	qb = applyPostFilter(qb, filter)
	qb = qb.
		OrderBy(postOrderClause(page)).
		Limit(uint64(page.Limit())).
		Offset(uint64(page.Offset()))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.List: %w", err)
	}
	defer rows.Close()

	var details []*ports.PostDetail
	for rows.Next() {
		detail, err := scanPostDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("PostRepository.List: scan: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepository.List: %w", err)
	}

	if err := r.attachLikersAndMedia(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// Count returns the total number of posts matching the filter
func (r *PostRepository) Count(ctx context.Context, filter ports.ListFilter) (int, error) {
	qb := r.SB.Select("COUNT(*)").From("posts p")
	qb = applyPostFilter(qb, filter)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("PostRepository.Count: build query: %w", err)
	}

	var count int
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("PostRepository.Count: %w", err)
	}
	return count, nil
}

// HasLiked reports whether the user currently likes the post
func (r *PostRepository) HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query, args, err := r.SB.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("post_likes").
		Where(sq.Eq{
			"post_id": pgtype.UUID{Bytes: postID, Valid: true},
			"user_id": pgtype.UUID{Bytes: userID, Valid: true},
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.HasLiked: build query: %w", err)
	}

	var liked bool
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&liked); err != nil {
		return false, fmt.Errorf("PostRepository.HasLiked: %w", err)
	}
	return liked, nil
}

// AddLike records a like; duplicate inserts are a no-op
func (r *PostRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	query, args, err := r.SB.
		Insert("post_likes").
		Columns("post_id", "user_id").
		Values(
			pgtype.UUID{Bytes: postID, Valid: true},
			pgtype.UUID{Bytes: userID, Valid: true},
		).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.AddLike: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.AddLike: %w", err)
	}
	return nil
}

// RemoveLike withdraws a like; absent rows are a no-op
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	query, args, err := r.SB.
		Delete("post_likes").
		Where(sq.Eq{
			"post_id": pgtype.UUID{Bytes: postID, Valid: true},
			"user_id": pgtype.UUID{Bytes: userID, Valid: true},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.RemoveLike: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.RemoveLike: %w", err)
	}
	return nil
}

func (r *PostRepository) detailQuery() sq.SelectBuilder {
	return r.SB.
		Select(
			"p.id", "p.title", "p.description", "p.content",
			"p.category_id", "p.author_id", "p.created_at", "p.updated_at",
			"c.name AS category_name",
			"COALESCE(u.username, '') AS author_username",
			"COALESCE(u.active, FALSE) AS author_is_active",
			authorIsAdminExpr,
		).
		From("posts p").
		Join("categories c ON c.id = p.category_id").
		LeftJoin("users u ON u.id = p.author_id")
}

// attachLikersAndMedia loads the likers and media for a batch of posts
// with one query each.
func (r *PostRepository) attachLikersAndMedia(ctx context.Context, details []*ports.PostDetail) error {
	if len(details) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*ports.PostDetail, len(details))
	ids := make([]pgtype.UUID, 0, len(details))
	for _, d := range details {
		byID[d.Post.ID] = d
		ids = append(ids, pgtype.UUID{Bytes: d.Post.ID, Valid: true})
	}

	query, args, err := r.SB.
		Select("pl.post_id", "u.username", "u.email").
		From("post_likes pl").
		Join("users u ON u.id = pl.user_id").
		Where(sq.Eq{"pl.post_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.attachLikersAndMedia: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.attachLikersAndMedia: likers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID pgtype.UUID
		var liker ports.Liker
		if err := rows.Scan(&postID, &liker.Username, &liker.Email); err != nil {
			return fmt.Errorf("PostRepository.attachLikersAndMedia: scan liker: %w", err)
		}
		if d, ok := byID[uuid.UUID(postID.Bytes)]; ok {
			d.Likers = append(d.Likers, liker)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("PostRepository.attachLikersAndMedia: likers: %w", err)
	}

	query, args, err = r.SB.
		Select("id", "post_id", "file_url", "created_at").
		From("media").
		Where(sq.Eq{"post_id": ids}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.attachLikersAndMedia: build query: %w", err)
	}

	mediaRows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.attachLikersAndMedia: media: %w", err)
	}
	defer mediaRows.Close()

	for mediaRows.Next() {
		var id, postID pgtype.UUID
		var createdAt pgtype.Timestamptz
		var media domain.Media
		if err := mediaRows.Scan(&id, &postID, &media.FileURL, &createdAt); err != nil {
			return fmt.Errorf("PostRepository.attachLikersAndMedia: scan media: %w", err)
		}
		media.ID = uuid.UUID(id.Bytes)
		media.PostID = uuid.UUID(postID.Bytes)
		media.CreatedAt = createdAt.Time
		if d, ok := byID[media.PostID]; ok {
			d.Media = append(d.Media, media)
		}
	}
	return mediaRows.Err()
}

func scanPostDetail(row pgx.Row) (*ports.PostDetail, error) {
	var detail ports.PostDetail
	var id, categoryID, authorID pgtype.UUID
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&id,
		&detail.Post.Title,
		&detail.Post.Description,
		&detail.Post.Content,
		&categoryID,
		&authorID,
		&createdAt,
		&updatedAt,
		&detail.CategoryName,
		&detail.AuthorUsername,
		&detail.AuthorIsActive,
		&detail.AuthorIsAdmin,
	)
	if err != nil {
		return nil, err
	}

	detail.Post.ID = uuid.UUID(id.Bytes)
	detail.Post.CategoryID = uuid.UUID(categoryID.Bytes)
	if authorID.Valid {
		author := uuid.UUID(authorID.Bytes)
		detail.Post.AuthorID = &author
	}
	detail.Post.CreatedAt = createdAt.Time
	detail.Post.UpdatedAt = updatedAt.Time
	return &detail, nil
}

func applyPostFilter(qb sq.SelectBuilder, filter ports.ListFilter) sq.SelectBuilder {
	if filter.CategoryID != nil {
		qb = qb.Where(sq.Eq{"p.category_id": pgtype.UUID{Bytes: *filter.CategoryID, Valid: true}})
	}
	if filter.AuthorID != nil {
		qb = qb.Where(sq.Eq{"p.author_id": pgtype.UUID{Bytes: *filter.AuthorID, Valid: true}})
	}
	return qb
}

func postOrderClause(page pagination.Request) string {
	column := "p.created_at"
	switch page.SortBy {
	case "title":
		column = "p.title"
	case "updatedAt":
		column = "p.updated_at"
	}
	if page.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

func uuidOrNull(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}
