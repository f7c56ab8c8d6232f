package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nmehra/tripsplit/internal/service"
)

// Handler exposes the REST API over the service layer.
type Handler struct {
	users     *service.UserService
	groups    *service.GroupService
	ledger    *service.LedgerService
	summaries *service.SummaryService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(users *service.UserService, groups *service.GroupService, ledgerSvc *service.LedgerService, summaries *service.SummaryService) *Handler {
	return &Handler{users: users, groups: groups, ledger: ledgerSvc, summaries: summaries}
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "User created successfully", toUserJSON(user))
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userJSON, len(users))
	for i, u := range users {
		out[i] = toUserJSON(u)
	}
	writeJSON(w, http.StatusOK, "", out)
}

// CreateGroup handles POST /api/groups.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Group created successfully", groupJSON{
		GroupID:   group.ID,
		Name:      group.Name,
		Members:   []userJSON{},
		CreatedAt: group.CreatedAt,
	})
}

// ListGroups handles GET /api/groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]groupJSON, len(groups))
	for i, g := range groups {
		out[i] = toGroupJSON(g)
	}
	writeJSON(w, http.StatusOK, "", out)
}

// GetGroup handles GET /api/groups/{groupID}.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	detail, err := h.groups.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", toGroupJSON(detail))
}

// ListExpenses handles GET /api/groups/{groupID}/expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.groups.ListExpenses(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	writeJSON(w, http.StatusOK, "", out)
}

// AddExpense handles POST /api/groups/{groupID}/expenses.
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.groups.AddExpense(r.Context(), chi.URLParam(r, "groupID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Expense added successfully", toExpenseJSON(service.ExpenseDetail{Expense: expense}))
}

// UpdateExpense handles PUT /api/groups/{groupID}/expenses/{expenseID}.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.groups.UpdateExpense(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Expense updated successfully", toExpenseJSON(service.ExpenseDetail{Expense: expense}))
}

// DeleteExpense handles DELETE /api/groups/{groupID}/expenses/{expenseID}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.DeleteExpense(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Expense deleted successfully", nil)
}

// GetBalances handles GET /api/groups/{groupID}/balances.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.GetBalances(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", toBalanceJSON(balances))
}

// SettleBalance handles POST /api/groups/{groupID}/settle.
func (h *Handler) SettleBalance(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	settlement, err := h.ledger.RecordSettlement(r.Context(), chi.URLParam(r, "groupID"), req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Balance settled successfully", map[string]any{
		"settlementId": settlement.ID,
		"from":         settlement.From,
		"to":           settlement.To,
		"amount":       settlement.Amount,
		"status":       settlement.Status,
		"createdAt":    settlement.CreatedAt,
	})
}

// SuggestSettlement handles GET /api/groups/{groupID}/settlement-suggestions.
func (h *Handler) SuggestSettlement(w http.ResponseWriter, r *http.Request) {
	plan, err := h.ledger.SuggestSettlement(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", toPlanJSON(plan))
}

// SmartSummary handles POST /api/groups/{groupID}/summaries.
func (h *Handler) SmartSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.summaries.SmartSummary(r.Context(), chi.URLParam(r, "groupID"), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", map[string]any{
		"summary": result.Summary,
		"query":   result.Query,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Trip expense splitter is running!", nil)
}
