package ledger

import "strings"

// Kind is the income/expense direction of a payment.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// expenseConcepts are the legacy free-text markers for cost-of-goods
// entries, matched case-insensitively against the concept.
var expenseConcepts = []string{
	"material",
	"compra",
	"repuesto",
	"reparación",
	"mano de obra",
}

// conceptInvestor marks money flowing out to an investor. It is checked
// before the cost markers so a concept mentioning both classifies as an
// investor payout.
const conceptInvestor = "inversionista"

// Classify returns the direction of a payment. The structured category
// tag wins when present; untagged (historical) records fall back to the
// legacy substring rules over the free-text concept. Pure function of
// the record's category and concept.
func Classify(p PaymentRecord) Kind {
	switch p.Category {
	case CategoryRent, CategoryOther:
		return KindIncome
	case CategoryInvestorPayout, CategoryMaintenanceCost:
		return KindExpense
	}
	return classifyConcept(p.Concept)
}

func classifyConcept(concept string) Kind {
	lowered := strings.ToLower(concept)
	if strings.Contains(lowered, conceptInvestor) {
		return KindExpense
	}
	for _, marker := range expenseConcepts {
		if strings.Contains(lowered, marker) {
			return KindExpense
		}
	}
	return KindIncome
}
