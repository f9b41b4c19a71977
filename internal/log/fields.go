package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldOperation = "operation"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldChoice    = "choice"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldBudget    = "budget"
	FieldSpent     = "spent"
	FieldStatus    = "status"
	FieldExpenses  = "expenses"
	FieldRenderer  = "renderer"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentShell   = "shell"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentReport  = "report"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpAddExpense  = "add_expense"
	OpSetBudget   = "set_budget"
	OpHistory     = "view_history"
	OpCategorize  = "categorize"
	OpReport      = "generate_report"
	OpCheckBudget = "check_budget"
	OpLoad        = "load"
	OpSave        = "save"
	OpRender      = "render"
	OpStartup     = "startup"
	OpShutdown    = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeCorrupt       = "corrupt_data_error"
	ErrorTypeInput         = "input_error"
	ErrorTypeRender        = "render_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(amount, category, date string) LogFields {
	f[FieldAmount] = amount
	f[FieldCategory] = category
	f[FieldDate] = date
	return f
}

// WithBudget adds spend-versus-budget fields
func (f LogFields) WithBudget(spent, budget, status string) LogFields {
	f[FieldSpent] = spent
	f[FieldBudget] = budget
	f[FieldStatus] = status
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
