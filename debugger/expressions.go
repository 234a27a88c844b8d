package debugger

import (
	"fmt"

	"github.com/lookbusy1344/lc3-emulator/vm"
)

// ExpressionEvaluator evaluates expressions in debugger commands. It
// tokenizes with ExprLexer and parses with ExprParser, which together handle
// precedence climbing, register/symbol/memory lookups, and value history
// references ($1, $2, ...).
type ExpressionEvaluator struct {
	valueHistory []vm.Word // History of evaluated values
	valueNumber  int       // Current value number for $1, $2, etc.
}

// NewExpressionEvaluator creates a new expression evaluator
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{
		valueHistory: make([]vm.Word, 0),
		valueNumber:  0,
	}
}

// EvaluateExpression evaluates an expression and returns the result
func (e *ExpressionEvaluator) EvaluateExpression(expr string, machine *vm.VM, symbols map[string]vm.Word) (vm.Word, error) {
	result, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return 0, err
	}

	// Store in history
	e.valueHistory = append(e.valueHistory, result)
	e.valueNumber = len(e.valueHistory)

	return result, nil
}

// Evaluate evaluates an expression and returns a boolean result (for conditions)
func (e *ExpressionEvaluator) Evaluate(expr string, machine *vm.VM, symbols map[string]vm.Word) (bool, error) {
	result, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return false, err
	}

	return result != 0, nil
}

// GetValueNumber returns the current value number
func (e *ExpressionEvaluator) GetValueNumber() int {
	return e.valueNumber
}

// GetValue returns a value from history by number
func (e *ExpressionEvaluator) GetValue(number int) (vm.Word, error) {
	if number < 1 || number > len(e.valueHistory) {
		return 0, fmt.Errorf("value $%d not in history", number)
	}

	return e.valueHistory[number-1], nil
}

// evaluate tokenizes expr and parses it with precedence climbing.
func (e *ExpressionEvaluator) evaluate(expr string, machine *vm.VM, symbols map[string]vm.Word) (vm.Word, error) {
	if len(expr) == 0 {
		return 0, fmt.Errorf("empty expression")
	}

	lexer := NewExprLexer(expr)
	tokens := lexer.TokenizeAll()

	parser := NewExprParser(tokens, machine, symbols, e)
	return parser.Parse()
}

// Reset clears the value history
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
	e.valueNumber = 0
}
