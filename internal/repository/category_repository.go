package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

// ErrCategoryExists is returned when a category name is already taken.
var ErrCategoryExists = errors.New("category already exists")

// CategoryRepo provides the flat category lookup table used to
// validate event categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// ListActive returns active categories ordered by name.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	const q = `SELECT id, category_name, active FROM categories WHERE active = 1 ORDER BY category_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a category.  Duplicate names surface as
// ErrCategoryExists via the unique index.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (category_name, active) VALUES (?, ?)`,
		c.CategoryName, c.Active)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrCategoryExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}
