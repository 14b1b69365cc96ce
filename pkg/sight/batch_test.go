package sight_test

import (
	"context"
	"testing"
	"time"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements sight.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Bookings() sight.BookingsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.BookingsClient)
}

func (m *MockClient) Assignments() sight.AssignmentsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.AssignmentsClient)
}

func (m *MockClient) Reports() sight.ReportsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.ReportsClient)
}

func (m *MockClient) CAPAs() sight.CAPAsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.CAPAsClient)
}

func (m *MockClient) PurchaseOrders() sight.PurchaseOrdersClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.PurchaseOrdersClient)
}

func (m *MockClient) Products() sight.ProductsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.ProductsClient)
}

func (m *MockClient) TimeAndActions() sight.TimeAndActionsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.TimeAndActionsClient)
}

func (m *MockClient) LabTestReports() sight.LabTestReportsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.LabTestReportsClient)
}

func (m *MockClient) MeasurementCharts() sight.MeasurementChartsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.MeasurementChartsClient)
}

func (m *MockClient) Organizations() sight.OrganizationsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.OrganizationsClient)
}

func (m *MockClient) Brands() sight.BrandsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.BrandsClient)
}

func (m *MockClient) Analytics() sight.AnalyticsClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.AnalyticsClient)
}

func (m *MockClient) Metadata() sight.MetadataClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.MetadataClient)
}

func (m *MockClient) Files() sight.FilesClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(sight.FilesClient)
}

func (m *MockClient) Login(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockClient) Logout() {
	m.Called()
}

func (m *MockClient) AccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrdersClient implements sight.PurchaseOrdersClient for testing
type MockPurchaseOrdersClient struct {
	mock.Mock
}

func (m *MockPurchaseOrdersClient) List(ctx context.Context, opts *sight.PurchaseOrderListOptions) (*sight.ListResponse[sight.Record], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sight.ListResponse[sight.Record]), args.Error(1)
}

func (m *MockPurchaseOrdersClient) Get(ctx context.Context, poNumber string) (sight.Record, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) Create(ctx context.Context, purchaseOrder sight.Record) (sight.Record, error) {
	args := m.Called(ctx, purchaseOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) Update(ctx context.Context, poNumber string, purchaseOrder sight.Record) (sight.Record, error) {
	args := m.Called(ctx, poNumber, purchaseOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) Delete(ctx context.Context, poNumber string) (sight.Record, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) ExecuteAction(ctx context.Context, poNumber, action string) (sight.Record, error) {
	args := m.Called(ctx, poNumber, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) ListAll(ctx context.Context, opts *sight.PurchaseOrderListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	args := m.Called(ctx, opts, pager)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sight.Record), args.Error(1)
}

func (m *MockPurchaseOrdersClient) Stream(ctx context.Context, opts *sight.PurchaseOrderListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	args := m.Called(ctx, opts, pager)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan sight.PageResult[sight.Record])
}

// MockBrandsClient implements sight.BrandsClient for testing
type MockBrandsClient struct {
	mock.Mock
}

func (m *MockBrandsClient) List(ctx context.Context, opts *sight.BrandListOptions) (*sight.ListResponse[sight.Record], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sight.ListResponse[sight.Record]), args.Error(1)
}

func (m *MockBrandsClient) Get(ctx context.Context, brandID string) (sight.Record, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockBrandsClient) Update(ctx context.Context, brandID string, brand sight.Record) (sight.Record, error) {
	args := m.Called(ctx, brandID, brand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockBrandsClient) Delete(ctx context.Context, brandID string) (sight.Record, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sight.Record), args.Error(1)
}

func (m *MockBrandsClient) ListAll(ctx context.Context, opts *sight.BrandListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	args := m.Called(ctx, opts, pager)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sight.Record), args.Error(1)
}

func (m *MockBrandsClient) Stream(ctx context.Context, opts *sight.BrandListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	args := m.Called(ctx, opts, pager)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan sight.PageResult[sight.Record])
}

func TestBatchExecutor_Execute(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	executor := sight.NewBatchExecutor(mockClient, 2)
	ctx := context.Background()

	po1 := sight.Record{"poNumber": "PO-1001", "status": "open"}
	po2 := sight.Record{"poNumber": "PO-1002", "status": "closed"}

	mockPOs.On("Get", mock.Anything, "PO-1001").Return(po1, nil)
	mockPOs.On("Get", mock.Anything, "PO-1002").Return(po2, nil)

	operations := []sight.BatchOperation{
		{
			ID:       "op1",
			Type:     "get",
			Resource: "purchase_order",
			Data:     "PO-1001",
		},
		{
			ID:       "op2",
			Type:     "get",
			Resource: "purchase_order",
			Data:     "PO-1002",
		},
	}

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Check results
	for _, result := range results {
		assert.True(t, result.Success)
		require.NoError(t, result.Error)
		assert.NotNil(t, result.Data)
		assert.Positive(t, result.Duration)
	}

	mockClient.AssertExpectations(t)
	mockPOs.AssertExpectations(t)
}

func TestBatchExecutor_WithCallback(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	executor := sight.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	po := sight.Record{"poNumber": "PO-1001"}
	mockPOs.On("Get", mock.Anything, "PO-1001").Return(po, nil)

	var (
		callbackCalled bool
		callbackResult *sight.BatchResult
	)

	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "purchase_order",
		Data:     "PO-1001",
		Callback: func(result *sight.BatchResult) {
			callbackCalled = true
			callbackResult = result
		},
	}

	_, err := executor.Execute(ctx, []sight.BatchOperation{operation})
	require.NoError(t, err)

	assert.True(t, callbackCalled)
	require.NotNil(t, callbackResult)
	assert.True(t, callbackResult.Success)
	assert.Equal(t, "op1", callbackResult.ID)

	mockClient.AssertExpectations(t)
	mockPOs.AssertExpectations(t)
}

func TestBatchExecutor_WithError(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	executor := sight.NewBatchExecutor(mockClient, 1)
	ctx := context.Background()

	mockPOs.On("Get", mock.Anything, "PO-9999").Return(nil, sight.ErrTestNetwork)

	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "purchase_order",
		Data:     "PO-9999",
	}

	results, err := executor.Execute(ctx, []sight.BatchOperation{operation})
	require.NoError(t, err) // Execute itself shouldn't fail
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
	require.ErrorIs(t, result.Error, sight.ErrTestNetwork)

	mockClient.AssertExpectations(t)
	mockPOs.AssertExpectations(t)
}

func TestBatchExecutor_UnsupportedResource(t *testing.T) {
	mockClient := &MockClient{}
	executor := sight.NewBatchExecutor(mockClient, 1)

	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "factory",
		Data:     "F-1",
	}

	results, err := executor.Execute(context.Background(), []sight.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, sight.ErrUnsupportedResourceType)
}

func TestBatchExecutor_BrandCreateUnsupported(t *testing.T) {
	mockClient := &MockClient{}
	mockBrands := &MockBrandsClient{}
	mockClient.On("Brands").Return(mockBrands)

	executor := sight.NewBatchExecutor(mockClient, 1)

	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "create",
		Resource: "brand",
		Data:     sight.Record{"name": "Acme"},
	}

	results, err := executor.Execute(context.Background(), []sight.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, sight.ErrUnsupportedOperationType)
}

func TestBatchExecutor_InvalidDataType(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	executor := sight.NewBatchExecutor(mockClient, 1)

	// Create expects a Record, not a string
	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "create",
		Resource: "purchase_order",
		Data:     "not a record",
	}

	results, err := executor.Execute(context.Background(), []sight.BatchOperation{operation})
	require.NoError(t, err)

	result := results[0]
	assert.False(t, result.Success)
	require.ErrorIs(t, result.Error, sight.ErrInvalidDataTypePurchaseOrder)
}

func TestBatchBuilder(t *testing.T) {
	builder := sight.NewBatchBuilder()

	newPO := sight.Record{"poNumber": "PO-2001", "style": "ST-9"}
	updatedPO := sight.Record{"status": "closed"}

	builder.
		AddCreatePurchaseOrder("create-1", newPO).
		AddUpdatePurchaseOrder("update-1", "PO-2001", updatedPO).
		AddDeletePurchaseOrder("delete-1", "PO-1999").
		AddGetPurchaseOrder("get-1", "PO-2001")

	operations := builder.Build()
	assert.Len(t, operations, 4)

	assert.Equal(t, "create-1", operations[0].ID)
	assert.Equal(t, "create", operations[0].Type)
	assert.Equal(t, "purchase_order", operations[0].Resource)

	assert.Equal(t, "update-1", operations[1].ID)
	assert.Equal(t, "update", operations[1].Type)

	updateData, ok := operations[1].Data.(*sight.UpdateData)
	require.True(t, ok)
	assert.Equal(t, "PO-2001", updateData.ID)

	assert.Equal(t, "delete-1", operations[2].ID)
	assert.Equal(t, "delete", operations[2].Type)

	assert.Equal(t, "get-1", operations[3].ID)
	assert.Equal(t, "get", operations[3].Type)
}

func TestBatchBuilder_MixedResources(t *testing.T) {
	builder := sight.NewBatchBuilder()

	builder.
		AddCreateOrganization("org-1", sight.Record{"name": "Factory A"}).
		AddGetOrganization("org-2", "ORG-42").
		AddCreateLabTestReport("lab-1", sight.Record{"labName": "SGS"})

	operations := builder.Build()
	assert.Len(t, operations, 3)

	assert.Equal(t, "organization", operations[0].Resource)
	assert.Equal(t, "organization", operations[1].Resource)
	assert.Equal(t, "lab_test_report", operations[2].Resource)
}

func TestBatchTransaction_RollbackDeletesCreated(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	goodPO := sight.Record{"poNumber": "PO-3001"}
	badPO := sight.Record{"poNumber": "PO-3002"}

	created := sight.Record{"poNumber": "PO-3001", "status": "open"}
	mockPOs.On("Create", mock.Anything, goodPO).Return(created, nil)
	mockPOs.On("Create", mock.Anything, badPO).Return(nil, sight.ErrTestInternalServer)
	mockPOs.On("Delete", mock.Anything, "PO-3001").Return(sight.Record{}, nil)

	executor := sight.NewBatchExecutor(mockClient, 1)
	transaction := sight.NewBatchTransaction(executor).
		Add(sight.BatchOperation{
			ID:       "op1",
			Type:     "create",
			Resource: "purchase_order",
			Data:     goodPO,
		}).
		Add(sight.BatchOperation{
			ID:       "op2",
			Type:     "create",
			Resource: "purchase_order",
			Data:     badPO,
		})

	results, err := transaction.Execute(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, sight.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "1 operations failed")
	assert.Len(t, results, 2)

	// The successful create should have been rolled back
	mockPOs.AssertCalled(t, "Delete", mock.Anything, "PO-3001")
}

func TestBatchTransaction_RollbackDisabled(t *testing.T) {
	mockClient := &MockClient{}
	mockPOs := &MockPurchaseOrdersClient{}
	mockClient.On("PurchaseOrders").Return(mockPOs)

	goodPO := sight.Record{"poNumber": "PO-3001"}
	badPO := sight.Record{"poNumber": "PO-3002"}

	created := sight.Record{"poNumber": "PO-3001"}
	mockPOs.On("Create", mock.Anything, goodPO).Return(created, nil)
	mockPOs.On("Create", mock.Anything, badPO).Return(nil, sight.ErrTestInternalServer)

	executor := sight.NewBatchExecutor(mockClient, 1)
	transaction := sight.NewBatchTransaction(executor).
		SetRollback(false).
		Add(sight.BatchOperation{
			ID:       "op1",
			Type:     "create",
			Resource: "purchase_order",
			Data:     goodPO,
		}).
		Add(sight.BatchOperation{
			ID:       "op2",
			Type:     "create",
			Resource: "purchase_order",
			Data:     badPO,
		})

	_, err := transaction.Execute(context.Background())
	require.NoError(t, err)

	mockPOs.AssertNotCalled(t, "Delete", mock.Anything, "PO-3001")
}

func TestBatchExecutor_Timeout(t *testing.T) {
	mockClient := &MockClient{}
	executor := sight.NewBatchExecutor(mockClient, 1)
	executor.SetTimeout(1 * time.Millisecond)

	// Unsupported resources fail without touching the network
	operation := sight.BatchOperation{
		ID:       "op1",
		Type:     "get",
		Resource: "unsupported",
		Data:     "test",
	}

	ctx := context.Background()
	results, err := executor.Execute(ctx, []sight.BatchOperation{operation})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	result := results[0]
	assert.False(t, result.Success)
	require.Error(t, result.Error)
}
