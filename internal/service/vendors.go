package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// RegisterVendor регистрирует продавца в статусе pending и назначает
// владельцу роль vendor. Приём заказов возможен только после одобрения.
func (s *Service) RegisterVendor(ctx context.Context, ownerID uuid.UUID, v *model.Vendor) (*model.Vendor, error) {
	v.ID = uuid.New()
	v.OwnerID = ownerID

	saved, err := s.repo.CreateVendor(ctx, v)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetUserRole(ctx, ownerID, model.RoleVendor); err != nil {
		return nil, err
	}

	return saved, nil
}

// GetVendorProfile возвращает профиль продавца вызывающего.
func (s *Service) GetVendorProfile(ctx context.Context, ownerID uuid.UUID) (*model.Vendor, error) {
	return s.repo.GetVendorByOwner(ctx, ownerID)
}

// UpdateVendorProfile обновляет описание и радиус доставки продавца вызывающего.
func (s *Service) UpdateVendorProfile(ctx context.Context, ownerID uuid.UUID, description string, radiusKm float64) (*model.Vendor, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateVendorProfile(ctx, vendor.ID, description, radiusKm)
}

// SetVendorOnline переключает приём заказов. Только одобренный продавец может выйти онлайн.
func (s *Service) SetVendorOnline(ctx context.Context, ownerID uuid.UUID, online bool) (*model.Vendor, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if online && vendor.Approval != model.VendorApproved {
		return nil, ErrVendorNotApproved
	}
	return s.repo.SetVendorOnline(ctx, vendor.ID, online)
}

// CreateVendorProduct добавляет товар в каталог продавца вызывающего.
func (s *Service) CreateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.New()
	p.VendorID = vendor.ID
	return s.repo.CreateProduct(ctx, p)
}

// ListVendorProducts возвращает каталог продавца вызывающего, включая неактивные товары.
func (s *Service) ListVendorProducts(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProductsByVendor(ctx, vendor.ID)
}

// UpdateVendorProduct обновляет товар продавца вызывающего.
func (s *Service) UpdateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p.VendorID = vendor.ID
	return s.repo.UpdateProduct(ctx, p)
}

// DeleteVendorProduct мягко удаляет товар продавца вызывающего.
func (s *Service) DeleteVendorProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	vendor, err := s.repo.GetVendorByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.repo.SoftDeleteProduct(ctx, vendor.ID, productID)
}
