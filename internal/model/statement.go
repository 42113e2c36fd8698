package model

// StatementType is the financial statement a concept belongs to.
type StatementType string

const (
	StatementBalanceSheet    StatementType = "balance_sheet"
	StatementIncomeStatement StatementType = "income_statement"
	StatementCashFlow        StatementType = "cash_flow"
	StatementOther           StatementType = "other"
	StatementUnknown         StatementType = ""
)

// CoreStatements are the statements reconciled per filing, in report order.
var CoreStatements = []StatementType{
	StatementBalanceSheet,
	StatementIncomeStatement,
	StatementCashFlow,
}

// Priority orders statement types for conflict resolution when a concept
// appears in roles classified to different statements. Balance sheet wins:
// its role definitions are the least ambiguous signal.
func (s StatementType) Priority() int {
	switch s {
	case StatementBalanceSheet:
		return 3
	case StatementCashFlow:
		return 2
	case StatementIncomeStatement:
		return 1
	case StatementOther:
		return 0
	}
	return -1
}

// Valid reports whether s is one of the four classified statement types.
func (s StatementType) Valid() bool {
	switch s {
	case StatementBalanceSheet, StatementIncomeStatement, StatementCashFlow, StatementOther:
		return true
	}
	return false
}
