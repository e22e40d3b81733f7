package dbhelper

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/ray-remotestate/foodwaste/models"
)

const productColumns = `id, name, contains_alcohol, photo_url, product_type`

func CreateProduct(ctx context.Context, db SQLExecutor, p *models.Product) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO products (name, contains_alcohol, photo_url, product_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.Name, p.ContainsAlcohol, p.PhotoURL, p.ProductType).Scan(&p.ID)
}

func GetProductsByIDs(ctx context.Context, db SQLExecutor, ids []int) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)
		ORDER BY id`, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var photo sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.ContainsAlcohol, &photo, &p.ProductType); err != nil {
		return nil, err
	}
	if photo.Valid {
		p.PhotoURL = &photo.String
	}
	return &p, nil
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toInts(ids []int64) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
