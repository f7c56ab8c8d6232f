package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/models"
)

func TestValidateSplit(t *testing.T) {
	tests := []struct {
		name    string
		expense *models.Expense
		wantErr bool
	}{
		{
			name:    "equal split is always valid",
			expense: equalExpense("A", "100", "A", "B"),
			wantErr: false,
		},
		{
			name: "negative amount rejected",
			expense: &models.Expense{
				Amount:       dec("-5"),
				SplitBetween: []string{"A"},
				Split:        models.Split{Type: models.SplitEqual},
			},
			wantErr: true,
		},
		{
			name: "empty split_between rejected",
			expense: &models.Expense{
				Amount: dec("100"),
				Split:  models.Split{Type: models.SplitEqual},
			},
			wantErr: true,
		},
		{
			name: "unknown split type rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A"},
				Split:        models.Split{Type: "shares"},
			},
			wantErr: true,
		},
		{
			name: "percentages summing to 100 accepted",
			expense: &models.Expense{
				Amount:       dec("90"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("60"),
						"B": dec("40"),
					},
				},
			},
			wantErr: false,
		},
		{
			name: "percentages off by rounding accepted",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B", "C"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("33.33"),
						"B": dec("33.33"),
						"C": dec("33.34"),
					},
				},
			},
			wantErr: false,
		},
		{
			name: "percentages summing to 90 rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("50"),
						"B": dec("40"),
					},
				},
			},
			wantErr: true,
		},
		{
			name: "percentage above 100 rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("150"),
						"B": dec("-50"),
					},
				},
			},
			wantErr: true,
		},
		{
			name: "percentage missing a member rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("100"),
					},
				},
			},
			wantErr: true,
		},
		{
			name: "percentage for an outsider rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A"},
				Split: models.Split{
					Type: models.SplitPercentage,
					Percentages: map[string]decimal.Decimal{
						"A": dec("50"),
						"Z": dec("50"),
					},
				},
			},
			wantErr: true,
		},
		{
			name: "exact amounts summing to total accepted",
			expense: &models.Expense{
				Amount:       dec("75"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitExactAmounts,
					Amounts: map[string]decimal.Decimal{
						"A": dec("25"),
						"B": dec("50"),
					},
				},
			},
			wantErr: false,
		},
		{
			name: "exact amounts within tolerance accepted",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B", "C"},
				Split: models.Split{
					Type: models.SplitExactAmounts,
					Amounts: map[string]decimal.Decimal{
						"A": dec("33.33"),
						"B": dec("33.33"),
						"C": dec("33.33"),
					},
				},
			},
			wantErr: false,
		},
		{
			name: "exact amounts short of total rejected",
			expense: &models.Expense{
				Amount:       dec("100"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitExactAmounts,
					Amounts: map[string]decimal.Decimal{
						"A": dec("40"),
						"B": dec("40"),
					},
				},
			},
			wantErr: true,
		},
		{
			name: "negative exact amount rejected",
			expense: &models.Expense{
				Amount:       dec("10"),
				SplitBetween: []string{"A", "B"},
				Split: models.Split{
					Type: models.SplitExactAmounts,
					Amounts: map[string]decimal.Decimal{
						"A": dec("20"),
						"B": dec("-10"),
					},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplit(tt.expense)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.IsValidation(err) {
				t.Errorf("ValidateSplit() returned %T, want a ValidationError", err)
			}
		})
	}
}
