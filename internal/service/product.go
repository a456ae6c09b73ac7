package service

import (
	"context"
	"fmt"
	"time"

	"doemais/internal/domain"
)

// ProductService handles product CRUD, listing, and the schedule/conclude
// donation transitions. The authenticated caller is passed in explicitly by
// the HTTP layer.
type ProductService struct {
	products domain.ProductRepository
	images   *ImageService
}

// NewProductService creates a new ProductService.
func NewProductService(products domain.ProductRepository, images *ImageService) *ProductService {
	return &ProductService{products: products, images: images}
}

// ProductInput carries the fields of a create or update request.
type ProductInput struct {
	Name        string
	Description string
	State       domain.ProductState
	PurchasedAt *time.Time
	Uploads     []Upload
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if in.State == "" {
		return fmt.Errorf("%w: state is required", domain.ErrInvalidInput)
	}
	if !in.State.Valid() {
		return fmt.Errorf("%w: state must be good, fair, or bad", domain.ErrInvalidInput)
	}
	if in.PurchasedAt == nil {
		return fmt.Errorf("%w: purchase date is required", domain.ErrInvalidInput)
	}
	if len(in.Uploads) == 0 {
		return fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}
	return nil
}

// Create lists a new product owned by the caller, available for donation.
func (s *ProductService) Create(ctx context.Context, owner *domain.User, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	keys, err := s.images.StoreAll(ctx, "products", in.Uploads)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Images:      keys,
		Available:   true,
		State:       in.State,
		OwnerID:     owner.ID,
		PurchasedAt: in.PurchasedAt,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// List returns one page of products, newest first, with owner and receiver
// populated.
func (s *ProductService) List(ctx context.Context, page, limit int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.products.List(ctx, limit, (page-1)*limit)
}

// GetByID returns a product by id.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Update full-replaces a product's fields and marks it available again.
// Ownership of the product is not checked here; the route only requires an
// authenticated caller.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	keys, err := s.images.StoreAll(ctx, "products", in.Uploads)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.State = in.State
	product.PurchasedAt = in.PurchasedAt
	product.Available = true
	product.Images = keys

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product. Removing an id that no longer exists succeeds.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// ListByOwner returns every product owned by the given user.
func (s *ProductService) ListByOwner(ctx context.Context, userID int64) ([]domain.Product, error) {
	return s.products.ListByOwner(ctx, userID)
}

// ListByReceiver returns every product the given user scheduled a pickup for.
func (s *ProductService) ListByReceiver(ctx context.Context, userID int64) ([]domain.Product, error) {
	return s.products.ListByReceiver(ctx, userID)
}

// Schedule records a pickup for an available product and returns a
// confirmation message with the caller's contact details. The caller must be
// the product's owner; there is no idempotency guard, so scheduling again
// before the donation concludes overwrites the receiver.
func (s *ProductService) Schedule(ctx context.Context, caller *domain.User, id int64) (string, error) {
	product, err := s.guardTransition(ctx, caller, id)
	if err != nil {
		return "", err
	}

	receiverID := caller.ID
	product.ReceiverID = &receiverID
	if err := s.products.Update(ctx, product); err != nil {
		return "", fmt.Errorf("schedule product: %w", err)
	}

	return fmt.Sprintf("The visit was scheduled successfully. Contact %s by phone at %s.", caller.Name, caller.Phone), nil
}

// ConcludeDonation finishes the donation: the product becomes unavailable and
// the donation timestamp is set.
func (s *ProductService) ConcludeDonation(ctx context.Context, caller *domain.User, id int64) (string, error) {
	product, err := s.guardTransition(ctx, caller, id)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	product.Available = false
	product.DonatedAt = &now
	if err := s.products.Update(ctx, product); err != nil {
		return "", fmt.Errorf("conclude donation: %w", err)
	}

	return "Donation concluded successfully.", nil
}

// guardTransition enforces the shared preconditions of Schedule and
// ConcludeDonation: the product exists, is still available, and the caller
// owns it.
func (s *ProductService) guardTransition(ctx context.Context, caller *domain.User, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, domain.ErrUnavailable
	}
	if product.OwnerID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}
