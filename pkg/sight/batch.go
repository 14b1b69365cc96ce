package sight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inspectorio-io/sight-go/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType      = errors.New("unsupported resource type")
	ErrUnsupportedOperationType     = errors.New("unsupported operation type")
	ErrInvalidDataTypePurchaseOrder = errors.New("invalid data type for purchase order operation")
	ErrInvalidDataTypeOrganization  = errors.New("invalid data type for organization operation")
	ErrInvalidDataTypeLabTestReport = errors.New("invalid data type for lab test report operation")
	ErrInvalidDataTypeBrand         = errors.New("invalid data type for brand operation")
	ErrTransactionFailed            = errors.New("transaction failed")
)

// UpdateData pairs a resource identifier with its update payload.
type UpdateData struct {
	ID   string
	Data Record
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "purchase_order", "organization", "lab_test_report", "brand"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// crudOps holds the per-resource operation closures the executor dispatches
// to. A nil closure means the resource does not support that operation.
type crudOps struct {
	invalidDataErr error
	create         func(ctx context.Context, data Record) (Record, error)
	update         func(ctx context.Context, id string, data Record) (Record, error)
	remove         func(ctx context.Context, id string) (Record, error)
	get            func(ctx context.Context, id string) (Record, error)
}

// handleCrudOperation dispatches one operation against a resource's crudOps.
func handleCrudOperation(ctx context.Context, operation BatchOperation, ops crudOps) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	var (
		data interface{}
		err  error
	)

	switch operation.Type {
	case constants.OperationCreate:
		data, err = runCreate(ctx, operation, ops)
	case constants.OperationUpdate:
		data, err = runUpdate(ctx, operation, ops)
	case constants.OperationDelete:
		data, err = runDelete(ctx, operation, ops)
	case "get":
		data, err = runGet(ctx, operation, ops)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}

func runCreate(ctx context.Context, operation BatchOperation, ops crudOps) (interface{}, error) {
	if ops.create == nil {
		return nil, fmt.Errorf("%w: create %s", ErrUnsupportedOperationType, operation.Resource)
	}

	record, ok := operation.Data.(Record)
	if !ok {
		return nil, fmt.Errorf("%w create", ops.invalidDataErr)
	}

	return ops.create(ctx, record)
}

func runUpdate(ctx context.Context, operation BatchOperation, ops crudOps) (interface{}, error) {
	if ops.update == nil {
		return nil, fmt.Errorf("%w: update %s", ErrUnsupportedOperationType, operation.Resource)
	}

	data, ok := operation.Data.(*UpdateData)
	if !ok {
		return nil, fmt.Errorf("%w update", ops.invalidDataErr)
	}

	return ops.update(ctx, data.ID, data.Data)
}

func runDelete(ctx context.Context, operation BatchOperation, ops crudOps) (interface{}, error) {
	if ops.remove == nil {
		return nil, fmt.Errorf("%w: delete %s", ErrUnsupportedOperationType, operation.Resource)
	}

	id, ok := operation.Data.(string)
	if !ok {
		return nil, fmt.Errorf("%w delete", ops.invalidDataErr)
	}

	return ops.remove(ctx, id)
}

func runGet(ctx context.Context, operation BatchOperation, ops crudOps) (interface{}, error) {
	if ops.get == nil {
		return nil, fmt.Errorf("%w: get %s", ErrUnsupportedOperationType, operation.Resource)
	}

	id, ok := operation.Data.(string)
	if !ok {
		return nil, fmt.Errorf("%w get", ops.invalidDataErr)
	}

	return ops.get(ctx, id)
}

// BatchExecutor executes batch operations.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchConcurrency
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout for batch operations.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations with bounded concurrency.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			// Acquire semaphore
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			// Execute operation with timeout
			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			// Call callback if provided
			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	switch operation.Resource {
	case "purchase_order":
		return handleCrudOperation(ctx, operation, b.purchaseOrderOps())
	case "organization":
		return handleCrudOperation(ctx, operation, b.organizationOps())
	case "lab_test_report":
		return handleCrudOperation(ctx, operation, b.labTestReportOps())
	case "brand":
		return handleCrudOperation(ctx, operation, b.brandOps())
	default:
		return &BatchResult{
			ID:      operation.ID,
			Success: false,
			Error:   fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource),
		}
	}
}

func (b *BatchExecutor) purchaseOrderOps() crudOps {
	client := b.client.PurchaseOrders()

	return crudOps{
		invalidDataErr: ErrInvalidDataTypePurchaseOrder,
		create:         client.Create,
		update:         client.Update,
		remove:         client.Delete,
		get:            client.Get,
	}
}

func (b *BatchExecutor) organizationOps() crudOps {
	client := b.client.Organizations()

	return crudOps{
		invalidDataErr: ErrInvalidDataTypeOrganization,
		create:         client.Create,
		update:         client.Update,
		remove:         client.Delete,
		get:            client.Get,
	}
}

func (b *BatchExecutor) labTestReportOps() crudOps {
	client := b.client.LabTestReports()

	return crudOps{
		invalidDataErr: ErrInvalidDataTypeLabTestReport,
		create:         client.Create,
		update:         client.Update,
		remove:         client.Delete,
		get:            client.Get,
	}
}

// brandOps omits create; the service provisions brands itself.
func (b *BatchExecutor) brandOps() crudOps {
	client := b.client.Brands()

	return crudOps{
		invalidDataErr: ErrInvalidDataTypeBrand,
		update:         client.Update,
		remove:         client.Delete,
		get:            client.Get,
	}
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreatePurchaseOrder adds a purchase order creation operation.
func (b *BatchBuilder) AddCreatePurchaseOrder(id string, purchaseOrder Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: "purchase_order",
		Data:     purchaseOrder,
	})

	return b
}

// AddUpdatePurchaseOrder adds a purchase order update operation.
func (b *BatchBuilder) AddUpdatePurchaseOrder(id, poNumber string, purchaseOrder Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationUpdate,
		Resource: "purchase_order",
		Data: &UpdateData{
			ID:   poNumber,
			Data: purchaseOrder,
		},
	})

	return b
}

// AddDeletePurchaseOrder adds a purchase order deletion operation.
func (b *BatchBuilder) AddDeletePurchaseOrder(id, poNumber string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationDelete,
		Resource: "purchase_order",
		Data:     poNumber,
	})

	return b
}

// AddGetPurchaseOrder adds a purchase order get operation.
func (b *BatchBuilder) AddGetPurchaseOrder(id, poNumber string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "purchase_order",
		Data:     poNumber,
	})

	return b
}

// AddCreateOrganization adds an organization creation operation.
func (b *BatchBuilder) AddCreateOrganization(id string, organization Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: "organization",
		Data:     organization,
	})

	return b
}

// AddGetOrganization adds an organization get operation.
func (b *BatchBuilder) AddGetOrganization(id, organizationID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "organization",
		Data:     organizationID,
	})

	return b
}

// AddCreateLabTestReport adds a lab test report creation operation.
func (b *BatchBuilder) AddCreateLabTestReport(id string, report Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     constants.OperationCreate,
		Resource: "lab_test_report",
		Data:     report,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction represents a transactional batch of operations.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	// Check for failures
	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	// If there were failures and rollback is enabled
	if len(failedOps) > 0 && t.rollback {
		// Attempt to rollback successful operations
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// performRollback deletes whatever the successful create operations made.
// Deletes cannot be recreated and updates would need the prior state, so
// those are left for manual intervention.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for i, result := range t.results {
		if !result.Success || t.operations[i].Type != constants.OperationCreate {
			continue
		}

		created, ok := result.Data.(Record)
		if !ok {
			continue
		}

		id := recordIdentifier(created)
		if id == "" {
			continue
		}

		rollbackOps = append(rollbackOps, BatchOperation{
			ID:       "rollback_" + t.operations[i].ID,
			Type:     constants.OperationDelete,
			Resource: t.operations[i].Resource,
			Data:     id,
		})
	}

	// Execute rollback operations if any
	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}

// recordIdentifier pulls the identifier out of a service record. Records are
// schemaless, so the well-known key names are tried in order.
func recordIdentifier(record Record) string {
	for _, key := range []string{"id", "poNumber", "po_number", "uid"} {
		value, ok := record[key]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}

	return ""
}
