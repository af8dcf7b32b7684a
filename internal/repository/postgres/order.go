package postgres

import (
	"database/sql"

	"github.com/lib/pq"
)

// OrderRepo implements repository.OrderRepository
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo creates a new order repository
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// LoadOrder returns the ids saved under key, or nil if nothing was saved
func (r *OrderRepo) LoadOrder(key string) ([]string, error) {
	var ids []string
	query := `SELECT item_ids FROM item_orders WHERE storage_key = $1`
	err := r.db.QueryRow(query, key).Scan(pq.Array(&ids))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// SaveOrder replaces the ids saved under key
func (r *OrderRepo) SaveOrder(key string, ids []string) error {
	query := `
		INSERT INTO item_orders (storage_key, item_ids, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key)
		DO UPDATE SET item_ids = EXCLUDED.item_ids, updated_at = NOW()
	`
	_, err := r.db.Exec(query, key, pq.Array(ids))
	return err
}
