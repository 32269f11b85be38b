package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cashsplit/backend/internal/application/usecase/expense"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/entrypoint/dto"
)

// ExpenseController handles expense endpoints nested under a group.
type ExpenseController struct {
	createUseCase *expense.CreateExpenseUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateExpenseUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /groups/:id/expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeMissingExpenseFields), err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), expense.CreateExpenseInput{
		GroupID: groupID,
		UserID:  userID,
		Version: version,
		Details: req.ToDetails(),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	// Display data is resolved on read; ids are enough here.
	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusCreated, dto.ExpenseMutationResponse{
		Expense: dto.ToExpenseResponse(output.Expense, nil),
		Version: output.Version,
	})
}

// Get handles GET /groups/:id/expenses/:expenseId requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expenseId", string(domainerror.ErrCodeInvalidExpenseID))
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{
		GroupID:   groupID,
		ExpenseID: expenseID,
		UserID:    userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense, dto.NewMemberLookup(output.Members)))
}

// Update handles PUT /groups/:id/expenses/:expenseId requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expenseId", string(domainerror.ErrCodeInvalidExpenseID))
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeMissingExpenseFields), err)
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), expense.UpdateExpenseInput{
		GroupID:   groupID,
		ExpenseID: expenseID,
		UserID:    userID,
		Version:   version,
		Details:   req.ToDetails(),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusOK, dto.ExpenseMutationResponse{
		Expense: dto.ToExpenseResponse(output.Expense, nil),
		Version: output.Version,
	})
}

// Delete handles DELETE /groups/:id/expenses/:expenseId requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expenseId", string(domainerror.ErrCodeInvalidExpenseID))
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{
		GroupID:   groupID,
		ExpenseID: expenseID,
		UserID:    userID,
		Version:   version,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusOK, dto.VersionResponse{Version: output.Version})
}
