package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"doemais/internal/domain"
)

// ProductRepository implements domain.ProductRepository using SQLite.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new SQLite-backed ProductRepository.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db.SqlDB}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, description, available, state, owner_id, receiver_id, purchased_at, donated_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Name, product.Description, product.Available, nullState(product.State),
		product.OwnerID, product.ReceiverID, nullTime(product.PurchasedAt), nullTime(product.DonatedAt), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	productID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get product id: %w", err)
	}

	if err := insertImages(ctx, tx, productID, product.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	product.ID = productID
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}
	var state sql.NullString
	var purchasedAt, donatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, available, state, owner_id, receiver_id, purchased_at, donated_at, created_at, updated_at
		 FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Available, &state, &p.OwnerID,
		&p.ReceiverID, &purchasedAt, &donatedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.State = domain.ProductState(state.String)
	p.PurchasedAt = timePtr(purchasedAt)
	p.DonatedAt = timePtr(donatedAt)

	images, err := r.loadImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.available, p.state, p.owner_id, p.receiver_id,
		        p.purchased_at, p.donated_at, p.created_at, p.updated_at,
		        o.name, o.email, o.phone, o.address, o.image, o.created_at, o.updated_at,
		        r.name, r.email, r.phone, r.address, r.image, r.created_at, r.updated_at
		 FROM products p
		 JOIN users o ON o.id = p.owner_id
		 LEFT JOIN users r ON r.id = p.receiver_id
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var state sql.NullString
		var purchasedAt, donatedAt sql.NullTime
		owner := domain.User{}
		var recvName, recvEmail, recvPhone, recvAddress, recvImage sql.NullString
		var recvCreated, recvUpdated sql.NullTime

		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Available, &state, &p.OwnerID,
			&p.ReceiverID, &purchasedAt, &donatedAt, &p.CreatedAt, &p.UpdatedAt,
			&owner.Name, &owner.Email, &owner.Phone, &owner.Address, &owner.Image, &owner.CreatedAt, &owner.UpdatedAt,
			&recvName, &recvEmail, &recvPhone, &recvAddress, &recvImage, &recvCreated, &recvUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.State = domain.ProductState(state.String)
		p.PurchasedAt = timePtr(purchasedAt)
		p.DonatedAt = timePtr(donatedAt)

		owner.ID = p.OwnerID
		p.Owner = &owner

		if p.ReceiverID != nil {
			p.Receiver = &domain.User{
				ID:        *p.ReceiverID,
				Name:      recvName.String,
				Email:     recvEmail.String,
				Phone:     recvPhone.String,
				Address:   recvAddress.String,
				Image:     recvImage.String,
				CreatedAt: recvCreated.Time,
				UpdatedAt: recvUpdated.Time,
			}
		}

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		images, err := r.loadImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images
	}
	return products, nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	return r.listBy(ctx, "p.owner_id = ?", ownerID)
}

func (r *ProductRepository) ListByReceiver(ctx context.Context, receiverID int64) ([]domain.Product, error) {
	return r.listBy(ctx, "p.receiver_id = ?", receiverID)
}

func (r *ProductRepository) listBy(ctx context.Context, where string, arg any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.available, p.state, p.owner_id, p.receiver_id,
		        p.purchased_at, p.donated_at, p.created_at, p.updated_at,
		        o.name, o.email, o.phone, o.address, o.image, o.created_at, o.updated_at
		 FROM products p
		 JOIN users o ON o.id = p.owner_id
		 WHERE `+where+`
		 ORDER BY p.created_at DESC, p.id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var state sql.NullString
		var purchasedAt, donatedAt sql.NullTime
		owner := domain.User{}

		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Available, &state, &p.OwnerID,
			&p.ReceiverID, &purchasedAt, &donatedAt, &p.CreatedAt, &p.UpdatedAt,
			&owner.Name, &owner.Email, &owner.Phone, &owner.Address, &owner.Image, &owner.CreatedAt, &owner.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.State = domain.ProductState(state.String)
		p.PurchasedAt = timePtr(purchasedAt)
		p.DonatedAt = timePtr(donatedAt)
		owner.ID = p.OwnerID
		p.Owner = &owner

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		images, err := r.loadImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, available = ?, state = ?, receiver_id = ?,
		        purchased_at = ?, donated_at = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name, product.Description, product.Available, nullState(product.State),
		product.ReceiverID, nullTime(product.PurchasedAt), nullTime(product.DonatedAt), now, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Replace the image set wholesale.
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", product.ID); err != nil {
		return fmt.Errorf("delete product images: %w", err)
	}
	if err := insertImages(ctx, tx, product.ID, product.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	product.UpdatedAt = now
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepository) loadImages(ctx context.Context, productID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT storage_key FROM product_images WHERE product_id = ? ORDER BY sort_order", productID)
	if err != nil {
		return nil, fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan image key: %w", err)
		}
		images = append(images, key)
	}
	return images, rows.Err()
}

func insertImages(ctx context.Context, tx *sql.Tx, productID int64, images []string) error {
	for i, key := range images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, sort_order, storage_key) VALUES (?, ?, ?)",
			productID, i, key,
		); err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func nullState(s domain.ProductState) any {
	if s == "" {
		return nil
	}
	return string(s)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
