package parser

import (
	"lumen/internal/ast"
	"lumen/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precAssignment     = 1 // =
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

type binaryInfo struct {
	prec       int
	rightAssoc bool
	op         ast.BinaryOp
	assign     bool
}

var binaryTable = map[string]binaryInfo{
	"||": {prec: precLogicalOr, op: ast.OpOr},
	"&&": {prec: precLogicalAnd, op: ast.OpAnd},
	"==": {prec: precEquality, op: ast.OpEq},
	"!=": {prec: precEquality, op: ast.OpNe},
	"<":  {prec: precComparison, op: ast.OpLt},
	"<=": {prec: precComparison, op: ast.OpLe},
	">":  {prec: precComparison, op: ast.OpGt},
	">=": {prec: precComparison, op: ast.OpGe},
	"+":  {prec: precAdditive, op: ast.OpAdd},
	"-":  {prec: precAdditive, op: ast.OpSub},
	"*":  {prec: precMultiplicative, op: ast.OpMul},
	"/":  {prec: precMultiplicative, op: ast.OpDiv},
	"%":  {prec: precMultiplicative, op: ast.OpRem},
}

// binaryOperator возвращает описание оператора; ok=false если токен не бинарный.
// Присваивание - единственный правоассоциативный оператор.
func binaryOperator(tok token.Token) (binaryInfo, bool) {
	if tok.Kind == token.Assign {
		return binaryInfo{prec: precAssignment, rightAssoc: true, assign: true}, true
	}
	if tok.Kind != token.Punct {
		return binaryInfo{}, false
	}
	info, ok := binaryTable[tok.Text]
	return info, ok
}
