package handler

import (
	"time"

	"doemais/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is never
// part of it.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ProductDTO is the JSON representation of a product. Owner and Receiver are
// present on read paths that resolve them.
type ProductDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Available   bool     `json:"available"`
	State       string   `json:"state,omitempty"`
	OwnerID     int64    `json:"ownerId"`
	ReceiverID  *int64   `json:"receiverId,omitempty"`
	Owner       *UserDTO `json:"owner,omitempty"`
	Receiver    *UserDTO `json:"receiver,omitempty"`
	PurchasedAt *string  `json:"purchasedAt,omitempty"`
	DonatedAt   *string  `json:"donatedAt,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toProductDTO(p *domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Available:   p.Available,
		State:       string(p.State),
		OwnerID:     p.OwnerID,
		ReceiverID:  p.ReceiverID,
		PurchasedAt: formatTimePtr(p.PurchasedAt),
		DonatedAt:   formatTimePtr(p.DonatedAt),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if p.Owner != nil {
		owner := toUserDTO(p.Owner)
		dto.Owner = &owner
	}
	if p.Receiver != nil {
		receiver := toUserDTO(p.Receiver)
		dto.Receiver = &receiver
	}
	return dto
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = toProductDTO(&products[i])
	}
	return dtos
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
