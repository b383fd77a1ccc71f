package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

func (r *PhotoRepository) Insert(ctx context.Context, p model.Photo) (model.Photo, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO client_photos (cpf, filename, type, mime_type, size_bytes, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.CPF, p.Filename, string(p.Type), p.MimeType, p.SizeBytes, p.UploadedBy, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return model.Photo{}, fmt.Errorf("insert photo: %w", err)
	}
	return p, nil
}

func (r *PhotoRepository) ListByCPF(ctx context.Context, cpf string) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, cpf, filename, type, mime_type, size_bytes, uploaded_by, created_at
		 FROM client_photos WHERE cpf = $1 ORDER BY created_at DESC, id DESC`, cpf)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]model.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *PhotoRepository) FindByID(ctx context.Context, id int64) (model.Photo, error) {
	p, err := scanPhoto(r.pool.QueryRow(ctx,
		`SELECT id, cpf, filename, type, mime_type, size_bytes, uploaded_by, created_at
		 FROM client_photos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Photo{}, model.ErrPhotoNotFound
	}
	if err != nil {
		return model.Photo{}, fmt.Errorf("find photo: %w", err)
	}
	return p, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM client_photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPhotoNotFound
	}
	return nil
}

func scanPhoto(row pgx.Row) (model.Photo, error) {
	var p model.Photo
	var photoType string
	err := row.Scan(&p.ID, &p.CPF, &p.Filename, &photoType, &p.MimeType, &p.SizeBytes, &p.UploadedBy, &p.CreatedAt)
	p.Type = model.PhotoType(photoType)
	return p, err
}
