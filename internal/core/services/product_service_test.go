package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/core/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

// Ensure MockProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error {
	args := m.Called(ctx, productID, userID, now)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, enforceFloor bool, userID string, now time.Time) (*domain.Product, error) {
	args := m.Called(ctx, productID, delta, enforceFloor, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, tx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ApplyStockDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, enforceFloor bool, userID string, now time.Time) error {
	args := m.Called(ctx, tx, deltas, enforceFloor, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	mockTenantSvc   *MockTenantAuthorizer
	service         portssvc.ProductSvcFacade
	tenantID        string
	userID          string
	product         domain.Product
	membership      *domain.UserTenant
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewProductService(suite.mockProductRepo, suite.mockTenantSvc, false)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.product = domain.Product{
		ProductID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		SKU:           "SKU-042",
		Name:          "Cooking oil 1L",
		Unit:          "pcs",
		CostPrice:     decimal.NewFromInt(12),
		SellPrice:     decimal.NewFromInt(18),
		StockQuantity: decimal.NewFromInt(30),
		IsActive:      true,
	}
	suite.membership = &domain.UserTenant{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
}

// --- Test Cases ---

func (suite *ProductServiceTestSuite) TestCreateProduct_Success() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:          "SKU-100",
		Name:         "Sugar 1kg",
		Unit:         "pcs",
		CostPrice:    decimal.NewFromInt(8),
		SellPrice:    decimal.NewFromInt(11),
		InitialStock: decimal.NewFromInt(40),
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()

	product, err := suite.service.CreateProduct(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(product)
	suite.NotEmpty(product.ProductID)
	suite.Equal("SKU-100", product.SKU)
	suite.True(product.IsActive)
	suite.True(decimal.NewFromInt(40).Equal(product.StockQuantity))
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestCreateProduct_NegativePrice() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:       "SKU-101",
		Name:      "Broken",
		CostPrice: decimal.NewFromInt(-1),
		SellPrice: decimal.NewFromInt(10),
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()

	_, err := suite.service.CreateProduct(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "SaveProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetProductByID_WrongTenant() {
	ctx := context.Background()
	foreign := suite.product
	foreign.TenantID = uuid.NewString()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, foreign.ProductID).Return(&foreign, nil).Once()

	_, err := suite.service.GetProductByID(ctx, suite.tenantID, foreign.ProductID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NoChangesSkipsWrite() {
	ctx := context.Background()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()

	product, err := suite.service.UpdateProduct(ctx, suite.tenantID, suite.product.ProductID, dto.UpdateProductRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.product.Name, product.Name)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "UpdateProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_Success() {
	ctx := context.Background()
	delta := decimal.NewFromInt(-5)
	adjusted := suite.product
	adjusted.StockQuantity = decimal.NewFromInt(25)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()
	// Floor stays enforced when neither the call nor config allows negatives.
	suite.mockProductRepo.On("AdjustStock", ctx, suite.product.ProductID, delta, true, suite.userID, mock.AnythingOfType("time.Time")).Return(&adjusted, nil).Once()

	product, err := suite.service.AdjustStock(ctx, suite.tenantID, suite.product.ProductID, delta, false, suite.userID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(25).Equal(product.StockQuantity))
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestAdjustStock_AllowNegativeSkipsFloor() {
	ctx := context.Background()
	delta := decimal.NewFromInt(-50)
	adjusted := suite.product
	adjusted.StockQuantity = decimal.NewFromInt(-20)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()
	suite.mockProductRepo.On("AdjustStock", ctx, suite.product.ProductID, delta, false, suite.userID, mock.AnythingOfType("time.Time")).Return(&adjusted, nil).Once()

	product, err := suite.service.AdjustStock(ctx, suite.tenantID, suite.product.ProductID, delta, true, suite.userID)

	suite.Require().NoError(err)
	suite.True(product.StockQuantity.IsNegative())
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestAdjustStock_InsufficientStock() {
	ctx := context.Background()
	delta := decimal.NewFromInt(-100)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()
	suite.mockProductRepo.On("AdjustStock", ctx, suite.product.ProductID, delta, true, suite.userID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrInsufficientStock).Once()

	_, err := suite.service.AdjustStock(ctx, suite.tenantID, suite.product.ProductID, delta, false, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_ZeroDelta() {
	ctx := context.Background()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()

	_, err := suite.service.AdjustStock(ctx, suite.tenantID, suite.product.ProductID, decimal.Zero, false, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestDeactivateProduct_Success() {
	ctx := context.Background()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, suite.product.ProductID).Return(&suite.product, nil).Once()
	suite.mockProductRepo.On("DeactivateProduct", ctx, suite.product.ProductID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateProduct(ctx, suite.tenantID, suite.product.ProductID, suite.userID)

	suite.Require().NoError(err)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
