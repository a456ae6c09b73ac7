package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"doemais/internal/domain"
	"doemais/internal/repository/sqlite"
)

func createTestUser(t *testing.T, db *sqlite.DB, email string) *domain.User {
	t.Helper()
	user := testUser(email)
	if err := sqlite.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func testProduct(ownerID int64, name string) *domain.Product {
	purchased := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Product{
		Name:        name,
		Description: "A donatable item",
		Images:      []string{"products/img-1", "products/img-2"},
		Available:   true,
		State:       domain.StateGood,
		OwnerID:     ownerID,
		PurchasedAt: &purchased,
	}
}

func TestProductRepository_Create(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	p := testProduct(owner.ID, "Sofa")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected product ID to be set")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Sofa" || !got.Available || got.State != domain.StateGood {
		t.Fatalf("unexpected product: %+v", got)
	}
	if len(got.Images) != 2 || got.Images[0] != "products/img-1" || got.Images[1] != "products/img-2" {
		t.Fatalf("expected ordered image keys, got %v", got.Images)
	}
	if got.PurchasedAt == nil {
		t.Fatal("expected purchased_at to be set")
	}
	if got.ReceiverID != nil || got.DonatedAt != nil {
		t.Fatalf("expected no receiver or donation timestamp on a new product: %+v", got)
	}
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_List_PaginationAndOrder(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		if err := repo.Create(ctx, testProduct(owner.ID, fmt.Sprintf("Item %d", i))); err != nil {
			t.Fatalf("Create item %d: %v", i, err)
		}
	}

	// Page 2 with limit 10 holds the items ranked 11-20 newest-first, i.e.
	// Item 15 down to Item 6.
	page, err := repo.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 products, got %d", len(page))
	}
	if page[0].Name != "Item 15" || page[9].Name != "Item 6" {
		t.Fatalf("unexpected page order: first=%s last=%s", page[0].Name, page[9].Name)
	}

	// Owner is populated and never carries the password hash.
	if page[0].Owner == nil {
		t.Fatal("expected owner to be populated")
	}
	if page[0].Owner.Email != "owner@example.com" {
		t.Fatalf("unexpected owner email %s", page[0].Owner.Email)
	}
	if page[0].Owner.PasswordHash != "" {
		t.Fatal("owner password hash must not be loaded by List")
	}
}

func TestProductRepository_List_PopulatesReceiver(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	receiver := createTestUser(t, db, "receiver@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	p := testProduct(owner.ID, "Lamp")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.ReceiverID = &receiver.ID
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	products, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Receiver == nil || products[0].Receiver.Email != "receiver@example.com" {
		t.Fatalf("expected receiver to be populated, got %+v", products[0].Receiver)
	}
}

func TestProductRepository_ListByOwnerAndReceiver(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	mine := testProduct(alice.ID, "Mine")
	if err := repo.Create(ctx, mine); err != nil {
		t.Fatalf("Create mine: %v", err)
	}
	theirs := testProduct(bob.ID, "Theirs")
	if err := repo.Create(ctx, theirs); err != nil {
		t.Fatalf("Create theirs: %v", err)
	}

	theirs.ReceiverID = &alice.ID
	if err := repo.Update(ctx, theirs); err != nil {
		t.Fatalf("Update theirs: %v", err)
	}

	owned, err := repo.ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(owned) != 1 || owned[0].Name != "Mine" {
		t.Fatalf("unexpected owned products: %+v", owned)
	}
	if owned[0].Owner == nil || owned[0].Owner.ID != alice.ID {
		t.Fatal("expected owner to be populated on ListByOwner")
	}

	receiving, err := repo.ListByReceiver(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByReceiver: %v", err)
	}
	if len(receiving) != 1 || receiving[0].Name != "Theirs" {
		t.Fatalf("unexpected receiver products: %+v", receiving)
	}
}

func TestProductRepository_Update_ReplacesImages(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	p := testProduct(owner.ID, "Chair")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Name = "Armchair"
	p.Images = []string{"products/img-3"}
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Armchair" {
		t.Fatalf("expected renamed product, got %s", got.Name)
	}
	if len(got.Images) != 1 || got.Images[0] != "products/img-3" {
		t.Fatalf("expected replaced images, got %v", got.Images)
	}

	var orphans int
	if err := db.SqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM product_images WHERE product_id = ?", p.ID,
	).Scan(&orphans); err != nil {
		t.Fatalf("count images: %v", err)
	}
	if orphans != 1 {
		t.Fatalf("expected exactly 1 image row, got %d", orphans)
	}
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	repo := sqlite.NewProductRepository(db)

	ghost := testProduct(owner.ID, "Ghost")
	ghost.ID = 424242
	err := repo.Update(context.Background(), ghost)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	p := testProduct(owner.ID, "Table")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Image rows are removed by the cascade.
	var images int
	if err := db.SqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM product_images WHERE product_id = ?", p.ID,
	).Scan(&images); err != nil {
		t.Fatalf("count images: %v", err)
	}
	if images != 0 {
		t.Fatalf("expected 0 image rows after delete, got %d", images)
	}

	// Deleting an id that no longer exists is not an error.
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
