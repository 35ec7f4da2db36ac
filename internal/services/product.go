package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/google/uuid"
)

const relatedProductsLimit = 4

type ProductService interface {
	CreateProduct(ctx context.Context, farmerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) (*models.PaginatedResponse, error)
	ListProductsByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error)
	ListRelatedProducts(ctx context.Context, id uuid.UUID) ([]models.Product, error)
	UpdateProduct(ctx context.Context, farmerID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, farmerID, id uuid.UUID) error
	AddReview(ctx context.Context, userID, productID uuid.UUID, req *models.AddReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	GetFarmerProfile(ctx context.Context, farmerID uuid.UUID) (*models.FarmerProfile, error)
}

type productService struct {
	repo     repository.ProductRepository
	userRepo repository.UserRepository
}

func NewProductService(repo repository.ProductRepository, userRepo repository.UserRepository) ProductService {
	return &productService{repo: repo, userRepo: userRepo}
}

func (s *productService) CreateProduct(ctx context.Context, farmerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:          uuid.New(),
		FarmerID:    farmerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Prices:      req.Prices,
		Status:      "active",
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.getProduct(ctx, id)
}

func (s *productService) getProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, page, size int) (*models.PaginatedResponse, error) {

	products, total, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	return &models.PaginatedResponse{
		Data:     products,
		Total:    total,
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *productService) ListProductsByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error) {

	products, err := s.repo.ListProductsByFarmer(ctx, farmerID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list farmer products").WithError(err)
	}

	return products, nil
}

// ListRelatedProducts returns other products in the same category, for the
// "you may also like" strip on the product page.
func (s *productService) ListRelatedProducts(ctx context.Context, id uuid.UUID) ([]models.Product, error) {

	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.repo.ListRelatedProducts(ctx, product.Category, product.ID, relatedProductsLimit)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list related products").WithError(err)
	}

	return related, nil
}

// UpdateProduct applies only the fields present in the request. Only the
// owning farmer may update a product.
func (s *productService) UpdateProduct(ctx context.Context, farmerID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.FarmerID != farmerID {
		return nil, appErrors.ForbiddenError("You can only update your own products")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Description != nil {
		product.Description = *req.Description
	}

	if req.Category != nil {
		product.Category = *req.Category
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.Prices != nil {
		product.Prices = *req.Prices
	}

	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, farmerID, id uuid.UUID) error {

	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}

	if product.FarmerID != farmerID {
		return appErrors.ForbiddenError("You can only delete your own products")
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	return nil
}

func (s *productService) AddReview(ctx context.Context, userID, productID uuid.UUID, req *models.AddReviewRequest) (*models.Review, error) {

	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		if user, err := s.userRepo.GetUserByID(ctx, userID); err == nil {
			name = user.Name
		}
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Name:      name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.repo.AddReview(ctx, review); err != nil {
		return nil, appErrors.DatabaseError("Failed to add review").WithError(err)
	}

	return review, nil
}

func (s *productService) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {

	reviews, err := s.repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list reviews").WithError(err)
	}

	return reviews, nil
}

// GetFarmerProfile exposes the public farmer identity shown alongside that
// farmer's products.
func (s *productService) GetFarmerProfile(ctx context.Context, farmerID uuid.UUID) (*models.FarmerProfile, error) {

	user, err := s.userRepo.GetUserByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Farmer not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch farmer").WithError(err)
	}

	if user.Role != models.RoleFarmer {
		return nil, appErrors.NotFoundError("Farmer not found")
	}

	return &models.FarmerProfile{ID: user.ID, Name: user.Name}, nil
}
