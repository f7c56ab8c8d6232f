package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbol is used in prompts and fallback reports. Amounts render with
// two decimal places at presentation time.
const currencySymbol = "₹"

func money(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

// categoryKeywords drives the local categorizer used when the model is
// unavailable. First category whose keyword appears in the description wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"food", []string{"restaurant", "food", "dining", "meal", "cafe", "pizza", "burger", "lunch", "dinner", "breakfast"}},
	{"travel", []string{"flight", "travel", "trip", "vacation", "booking", "airbnb"}},
	{"accommodation", []string{"hotel", "accommodation", "lodging", "stay", "room"}},
	{"entertainment", []string{"movie", "cinema", "game", "entertainment", "concert", "show", "theater"}},
	{"shopping", []string{"shopping", "store", "mall", "clothes", "fashion", "retail"}},
	{"transportation", []string{"taxi", "uber", "bus", "train", "metro", "fuel", "gas", "parking"}},
	{"utilities", []string{"electricity", "water", "internet", "phone", "utility", "bill"}},
	{"healthcare", []string{"doctor", "hospital", "medicine", "pharmacy", "health", "medical"}},
	{"education", []string{"school", "university", "course", "book", "education", "learning"}},
}

// fallbackCategory picks a category by keyword match, defaulting to "other".
func fallbackCategory(description string) string {
	desc := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(desc, keyword) {
				return entry.category
			}
		}
	}
	return "other"
}

// buildSummaryPrompt renders the aggregate into the prompt sent to the model.
func buildSummaryPrompt(query string, data SummaryData) string {
	if query == "" {
		query = "Provide a general summary of this trip"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following trip expense data and provide a conversational summary based on the user's query.\n\n")
	fmt.Fprintf(&b, "User Query: %q\n", query)
	fmt.Fprintf(&b, "Group Name: %s\n", data.GroupName)
	fmt.Fprintf(&b, "Total Expenses: %d\n", data.TotalExpenses)
	fmt.Fprintf(&b, "Total Amount: %s\n\n", money(data.TotalAmount))

	b.WriteString("Expenses:\n")
	for _, e := range data.Expenses {
		fmt.Fprintf(&b, "- %s: %s (paid by %s, split between %s, category: %s)\n",
			e.Description, money(e.Amount), e.PaidBy, strings.Join(e.SplitBetween, ", "), e.Category)
	}

	b.WriteString("\nSpending by Person:\n")
	for _, person := range sortedByAmount(data.SpendingByPerson) {
		fmt.Fprintf(&b, "- %s: %s\n", person, money(data.SpendingByPerson[person]))
	}

	b.WriteString("\nSpending by Category:\n")
	for _, category := range sortedByAmount(data.SpendingByCategory) {
		fmt.Fprintf(&b, "- %s: %s\n", category, money(data.SpendingByCategory[category]))
	}

	b.WriteString("\nCurrent Balances:\n")
	for _, bal := range data.Balances {
		fmt.Fprintf(&b, "- %s owes %s: %s\n", bal.From, bal.To, money(bal.Amount))
	}

	fmt.Fprintf(&b, "\nKeep the response conversational and helpful, as if you're talking to a friend about their trip expenses. Use the %s symbol for all monetary amounts.\n", currencySymbol)
	return b.String()
}

// fallbackSummary builds a templated report when the model is unavailable.
// It covers the same aggregates the prompt does, so callers get a useful
// answer either way.
func fallbackSummary(query string, data SummaryData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip summary for %s:\n\n", data.GroupName)
	fmt.Fprintf(&b, "Total spent: %s across %d expenses\n", money(data.TotalAmount), data.TotalExpenses)

	if people := sortedByAmount(data.SpendingByPerson); len(people) > 0 {
		fmt.Fprintf(&b, "Top spender: %s with %s\n", people[0], money(data.SpendingByPerson[people[0]]))
		b.WriteString("\nSpending by person:\n")
		for _, person := range people {
			fmt.Fprintf(&b, "- %s: %s\n", person, money(data.SpendingByPerson[person]))
		}
	}

	if categories := sortedByAmount(data.SpendingByCategory); len(categories) > 0 {
		b.WriteString("\nSpending by category:\n")
		for _, category := range categories {
			fmt.Fprintf(&b, "- %s: %s\n", category, money(data.SpendingByCategory[category]))
		}
	}

	b.WriteString("\nCurrent balances:\n")
	if len(data.Balances) == 0 {
		b.WriteString("All settled up! No outstanding balances.\n")
	} else {
		for _, bal := range data.Balances {
			fmt.Fprintf(&b, "- %s owes %s: %s\n", bal.From, bal.To, money(bal.Amount))
		}
	}

	if query != "" {
		fmt.Fprintf(&b, "\n(Generated without AI assistance for query %q.)\n", query)
	}
	return b.String()
}

// sortedByAmount returns map keys ordered by descending amount, then name.
func sortedByAmount(amounts map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(amounts))
	for k := range amounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		cmp := amounts[keys[i]].Cmp(amounts[keys[j]])
		if cmp != 0 {
			return cmp > 0
		}
		return keys[i] < keys[j]
	})
	return keys
}
