package server

import (
	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/ledger"
	"github.com/nmehra/tripsplit/internal/models"
	"github.com/nmehra/tripsplit/internal/service"
)

// Request payloads.

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// splitDetail is one entry of the splitDetails array; which field is set
// depends on splitType.
type splitDetail struct {
	UserID     string           `json:"userId"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

type expenseRequest struct {
	PaidBy       string           `json:"paidBy"`
	Amount       decimal.Decimal  `json:"amount"`
	Description  string           `json:"description"`
	SplitBetween []string         `json:"splitBetween"`
	SplitType    models.SplitType `json:"splitType"`
	SplitDetails []splitDetail    `json:"splitDetails,omitempty"`
}

type settleRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type summaryRequest struct {
	Query string `json:"query"`
}

// toInput converts the wire expense into the service input, folding the
// splitDetails array into the tagged Split variant.
func (req *expenseRequest) toInput() (service.ExpenseInput, error) {
	split := models.Split{Type: req.SplitType}

	switch req.SplitType {
	case models.SplitPercentage:
		split.Percentages = make(map[string]decimal.Decimal, len(req.SplitDetails))
		for _, d := range req.SplitDetails {
			if d.Percentage == nil {
				return service.ExpenseInput{}, apperr.Validationf("missing percentage for split member %s", d.UserID)
			}
			split.Percentages[d.UserID] = *d.Percentage
		}
	case models.SplitExactAmounts:
		split.Amounts = make(map[string]decimal.Decimal, len(req.SplitDetails))
		for _, d := range req.SplitDetails {
			if d.Amount == nil {
				return service.ExpenseInput{}, apperr.Validationf("missing amount for split member %s", d.UserID)
			}
			split.Amounts[d.UserID] = *d.Amount
		}
	}

	return service.ExpenseInput{
		PaidBy:       req.PaidBy,
		Amount:       req.Amount,
		Description:  req.Description,
		SplitBetween: req.SplitBetween,
		Split:        split,
	}, nil
}

// Response payloads.

type userJSON struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{UserID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type groupJSON struct {
	GroupID   string        `json:"groupId"`
	Name      string        `json:"name"`
	Members   []userJSON    `json:"members"`
	Expenses  []expenseJSON `json:"expenses,omitempty"`
	CreatedAt int64         `json:"createdAt"`
}

func toGroupJSON(d *service.GroupDetail) groupJSON {
	g := groupJSON{
		GroupID:   d.Group.ID,
		Name:      d.Group.Name,
		Members:   make([]userJSON, len(d.Members)),
		CreatedAt: d.Group.CreatedAt,
	}
	for i, m := range d.Members {
		g.Members[i] = toUserJSON(m)
	}
	for _, e := range d.Expenses {
		g.Expenses = append(g.Expenses, toExpenseJSON(e))
	}
	return g
}

type expenseJSON struct {
	ExpenseID    string           `json:"expenseId"`
	GroupID      string           `json:"groupId"`
	PaidBy       string           `json:"paidBy"`
	PaidByUser   *userJSON        `json:"paidByUser,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Description  string           `json:"description"`
	SplitBetween []string         `json:"splitBetween"`
	SplitType    models.SplitType `json:"splitType"`
	SplitDetails []splitDetail    `json:"splitDetails,omitempty"`
	Category     string           `json:"category"`
	CreatedAt    int64            `json:"createdAt"`
	UpdatedAt    int64            `json:"updatedAt"`
}

func toExpenseJSON(d service.ExpenseDetail) expenseJSON {
	e := d.Expense
	out := expenseJSON{
		ExpenseID:    e.ID,
		GroupID:      e.GroupID,
		PaidBy:       e.PaidBy,
		Amount:       e.Amount,
		Description:  e.Description,
		SplitBetween: e.SplitBetween,
		SplitType:    e.Split.Type,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if d.PaidByUser != nil {
		u := toUserJSON(d.PaidByUser)
		out.PaidByUser = &u
	}
	switch e.Split.Type {
	case models.SplitPercentage:
		for _, userID := range e.SplitBetween {
			pct := e.Split.Percentages[userID]
			out.SplitDetails = append(out.SplitDetails, splitDetail{UserID: userID, Percentage: &pct})
		}
	case models.SplitExactAmounts:
		for _, userID := range e.SplitBetween {
			amt := e.Split.Amounts[userID]
			out.SplitDetails = append(out.SplitDetails, splitDetail{UserID: userID, Amount: &amt})
		}
	}
	return out
}

type balanceJSON struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func toBalanceJSON(balances []models.Balance) []balanceJSON {
	out := make([]balanceJSON, len(balances))
	for i, b := range balances {
		out[i] = balanceJSON{From: b.From, To: b.To, Amount: ledger.Present(b.Amount)}
	}
	return out
}

type planJSON struct {
	Suggestions           []balanceJSON `json:"suggestions"`
	OriginalTransactions  int           `json:"originalTransactions,omitempty"`
	OptimizedTransactions int           `json:"optimizedTransactions,omitempty"`
	Savings               int           `json:"savings,omitempty"`
	Message               string        `json:"message,omitempty"`
}

func toPlanJSON(plan *models.SettlementPlan) planJSON {
	out := planJSON{
		Suggestions:           make([]balanceJSON, len(plan.Suggestions)),
		OriginalTransactions:  plan.OriginalTransactions,
		OptimizedTransactions: plan.OptimizedTransactions,
		Savings:               plan.Savings,
		Message:               plan.Message,
	}
	for i, t := range plan.Suggestions {
		out.Suggestions[i] = balanceJSON{From: t.From, To: t.To, Amount: ledger.Present(t.Amount)}
	}
	return out
}
