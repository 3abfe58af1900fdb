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

	"github.com/harborblog/backend/internal/comments/domain"
	"github.com/harborblog/backend/internal/comments/ports"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/platform/postgres"
)

const commentAuthorIsAdminExpr = `EXISTS (
	SELECT 1 FROM user_roles ur
	JOIN roles r ON r.id = ur.role_id
	WHERE ur.user_id = cm.author_id AND r.name = 'ADMIN'
) AS author_is_admin`

// CommentRepository implements ports.CommentRepository using PostgreSQL
type CommentRepository struct {
	postgres.BaseRepository
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *pgxpool.Pool) ports.CommentRepository {
	return &CommentRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *CommentRepository) WithTx(tx pgx.Tx) ports.CommentRepository {
	return &CommentRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query, args, err := r.SB.
		Insert("comments").
		Columns(
			"id", "post_id", "author_id", "name", "email",
			"body", "created_at", "updated_at",
		).
		Values(
			pgtype.UUID{Bytes: comment.ID, Valid: true},
			pgtype.UUID{Bytes: comment.PostID, Valid: true},
			uuidOrNull(comment.AuthorID),
			comment.Name,
			comment.Email,
			comment.Body,
			pgtype.Timestamptz{Time: comment.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: comment.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Create: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.Create: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ports.CommentDetail, error) {
	query, args, err := r.detailQuery().
		Where(sq.Eq{"cm.id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindByID: build query: %w", err)
	}

	row := r.DB.QueryRow(ctx, query, args...)
	detail, err := scanCommentDetail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCommentNotFound
		}
		return nil, fmt.Errorf("CommentRepository.FindByID: %w", err)
	}

	if err := r.attachLikers(ctx, []*ports.CommentDetail{detail}); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query, args, err := r.SB.
		Update("comments").
		Set("body", comment.Body).
		Set("updated_at", pgtype.Timestamptz{Time: comment.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: comment.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("comments").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, page pagination.Request) ([]*ports.CommentDetail, error) {
	qb := r.detailQuery().
		Where(sq.Eq{"cm.post_id": pgtype.UUID{Bytes: postID, Valid: true}}).
		OrderBy(commentOrderClause(page)).
		Limit(uint64(page.Limit())).
		Offset(uint64(page.Offset()))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: %w", err)
	}
	defer rows.Close()

	var details []*ports.CommentDetail
	for rows.Next() {
		detail, err := scanCommentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("CommentRepository.ListByPost: scan: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: %w", err)
	}

	if err := r.attachLikers(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	query, args, err := r.SB.
		Select("COUNT(*)").
		From("comments").
		Where(sq.Eq{"post_id": pgtype.UUID{Bytes: postID, Valid: true}}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("CommentRepository.CountByPost: build query: %w", err)
	}

	var count int
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CommentRepository.CountByPost: %w", err)
	}
	return count, nil
}

func (r *CommentRepository) HasLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	query, args, err := r.SB.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("comment_likes").
		Where(sq.Eq{
			"comment_id": pgtype.UUID{Bytes: commentID, Valid: true},
			"user_id":    pgtype.UUID{Bytes: userID, Valid: true},
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CommentRepository.HasLiked: build query: %w", err)
	}

	var liked bool
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&liked); err != nil {
		return false, fmt.Errorf("CommentRepository.HasLiked: %w", err)
	}
	return liked, nil
}

func (r *CommentRepository) AddLike(ctx context.Context, commentID, userID uuid.UUID) error {
	query, args, err := r.SB.
		Insert("comment_likes").
		Columns("comment_id", "user_id").
		Values(
			pgtype.UUID{Bytes: commentID, Valid: true},
			pgtype.UUID{Bytes: userID, Valid: true},
		).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.AddLike: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.AddLike: %w", err)
	}
	return nil
}

func (r *CommentRepository) RemoveLike(ctx context.Context, commentID, userID uuid.UUID) error {
	query, args, err := r.SB.
		Delete("comment_likes").
		Where(sq.Eq{
			"comment_id": pgtype.UUID{Bytes: commentID, Valid: true},
			"user_id":    pgtype.UUID{Bytes: userID, Valid: true},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.RemoveLike: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.RemoveLike: %w", err)
	}
	return nil
}

func (r *CommentRepository) detailQuery() sq.SelectBuilder {
	return r.SB.
		Select(
			"cm.id", "cm.post_id", "cm.author_id", "cm.name", "cm.email",
			"cm.body", "cm.created_at", "cm.updated_at",
			"COALESCE(u.username, '') AS author_username",
			"COALESCE(u.active, FALSE) AS author_is_active",
			commentAuthorIsAdminExpr,
		).
		From("comments cm").
		LeftJoin("users u ON u.id = cm.author_id")
}

func (r *CommentRepository) attachLikers(ctx context.Context, details []*ports.CommentDetail) error {
	if len(details) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*ports.CommentDetail, len(details))
	ids := make([]pgtype.UUID, 0, len(details))
	for _, d := range details {
		byID[d.Comment.ID] = d
		ids = append(ids, pgtype.UUID{Bytes: d.Comment.ID, Valid: true})
	}

	query, args, err := r.SB.
		Select("cl.comment_id", "u.username", "u.email").
		From("comment_likes cl").
		Join("users u ON u.id = cl.user_id").
		Where(sq.Eq{"cl.comment_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.attachLikers: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.attachLikers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID pgtype.UUID
		var liker ports.Liker
		if err := rows.Scan(&commentID, &liker.Username, &liker.Email); err != nil {
			return fmt.Errorf("CommentRepository.attachLikers: scan: %w", err)
		}
		if d, ok := byID[uuid.UUID(commentID.Bytes)]; ok {
			d.Likers = append(d.Likers, liker)
		}
	}
	return rows.Err()
}

func scanCommentDetail(row pgx.Row) (*ports.CommentDetail, error) {
	var detail ports.CommentDetail
	var id, postID, authorID pgtype.UUID
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&id,
		&postID,
		&authorID,
		&detail.Comment.Name,
		&detail.Comment.Email,
		&detail.Comment.Body,
		&createdAt,
		&updatedAt,
		&detail.AuthorUsername,
		&detail.AuthorIsActive,
		&detail.AuthorIsAdmin,
	)
	if err != nil {
		return nil, err
	}

	detail.Comment.ID = uuid.UUID(id.Bytes)
	detail.Comment.PostID = uuid.UUID(postID.Bytes)
	if authorID.Valid {
		author := uuid.UUID(authorID.Bytes)
		detail.Comment.AuthorID = &author
	}
	detail.Comment.CreatedAt = createdAt.Time
	detail.Comment.UpdatedAt = updatedAt.Time
	return &detail, nil
}

func commentOrderClause(page pagination.Request) string {
	column := "cm.created_at"
	if page.SortBy == "updatedAt" {
		column = "cm.updated_at"
	}
	if page.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}
