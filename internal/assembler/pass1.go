package assembler

import (
	"github.com/gmofishsauce/tas/internal/asmtab"
	"github.com/gmofishsauce/tas/internal/diag"
	"github.com/gmofishsauce/tas/internal/lexer"
)

const maxLineLength = 80

// PassOne runs the first pass over source, one line at a time,
// populating ctx's symbol table, link table, data image and code
// image. It returns the number of errors recorded; warnings do not
// count.
func PassOne(ctx *Context, source []string, diags *diag.Counter) int {
	for i, raw := range source {
		lineNo := i + 1

		if len(raw) > maxLineLength {
			diags.Warnf(lineNo, "line exceeds %d characters", maxLineLength)
		}

		clean := lexer.CleanLine(raw)
		if clean == "" || clean[0] == ';' {
			continue
		}

		firstPassLine(ctx, diags, lineNo, clean, 0)
	}
	return diags.ErrorCount()
}

// firstPassLine classifies and dispatches the column at startCol
// within clean. Label definitions re-enter this same function at
// startCol+1 rather than recursing through a second code path,
// modelling the source's re-entrant first_process_line (spec.md §9).
func firstPassLine(ctx *Context, diags *diag.Counter, lineNo int, clean string, startCol int) {
	col := lexer.Column(clean, startCol)
	kind := asmtab.ClassifyColumn(col)

	switch kind {
	case asmtab.LabelDef:
		firstPassLabel(ctx, diags, lineNo, clean, startCol, col)
	case asmtab.DirectiveData:
		firstPassData(ctx, diags, lineNo, clean, startCol+1)
	case asmtab.DirectiveString:
		firstPassString(ctx, diags, lineNo, clean, startCol+1)
	case asmtab.DirectiveEntry:
		firstPassLink(ctx, diags, lineNo, clean, startCol+1, LinkEntry)
	case asmtab.DirectiveExtern:
		firstPassLink(ctx, diags, lineNo, clean, startCol+1, LinkExtern)
	case asmtab.OperationCol:
		firstPassOperation(ctx, diags, lineNo, clean, startCol)
	default:
		diags.Errorf(lineNo, "unknown column type: %s", col)
	}
}

func firstPassLabel(ctx *Context, diags *diag.Counter, lineNo int, clean string, startCol int, labelCol string) {
	name := labelCol[:len(labelCol)-1]

	next := lexer.Column(clean, startCol+1)
	nextKind := asmtab.ClassifyColumn(next)

	switch nextKind {
	case asmtab.OperationCol:
		defineSymbol(ctx, diags, lineNo, name, uint16(len(ctx.Code)), SymAbsolute)
		firstPassLine(ctx, diags, lineNo, clean, startCol+1)
	case asmtab.DirectiveData, asmtab.DirectiveString:
		defineSymbol(ctx, diags, lineNo, name, uint16(len(ctx.Data)), SymRelocatable)
		firstPassLine(ctx, diags, lineNo, clean, startCol+1)
	case asmtab.DirectiveEntry, asmtab.DirectiveExtern:
		diags.Warnf(lineNo, "label in front of compiler directive: %s", name)
	default:
		diags.Errorf(lineNo, "unknown column type: %s", next)
	}
}

func defineSymbol(ctx *Context, diags *diag.Counter, lineNo int, name string, value uint16, typ SymbolType) {
	if ctx.LookupSymbol(name) != nil {
		diags.Errorf(lineNo, "symbol is already defined: %s", name)
		return
	}
	if !ctx.addSymbol(Symbol{Name: name, Value: value, Type: typ}) {
		diags.Errorf(lineNo, "symbol table is full")
	}
}

func firstPassLink(ctx *Context, diags *diag.Counter, lineNo int, clean string, col int, typ LinkType) {
	name := lexer.Column(clean, col)
	if name == "" {
		diags.Errorf(lineNo, "expected label: %s", clean)
		return
	}
	if !asmtab.IsLabelName(name) {
		diags.Errorf(lineNo, "invalid label: %s", name)
		return
	}
	if !ctx.addLink(Link{Name: name, Value: 0xFFFF, Type: typ}) {
		diags.Errorf(lineNo, "link table is full")
	}
}

func firstPassData(ctx *Context, diags *diag.Counter, lineNo int, clean string, col int) {
	list := lexer.Column(clean, col)
	if list == "" {
		diags.Errorf(lineNo, "expected numbers: %s", clean)
		return
	}

	for j := 0; ; j++ {
		number := lexer.Subcolumn(list, ',', j)
		if number == "" {
			break
		}
		if !asmtab.IsNumericLiteral(number, 0) {
			diags.Errorf(lineNo, "not a valid numeric literal: '%s'", number)
			return
		}
		if !ctx.appendData(Cell{Value: asmtab.ParseNumber(number, 0), Type: CellData}) {
			diags.Errorf(lineNo, "data image is full")
			return
		}
	}
}

func firstPassString(ctx *Context, diags *diag.Counter, lineNo int, clean string, col int) {
	str := lexer.Column(clean, col)
	if str == "" || str[0] != '"' {
		diags.Errorf(lineNo, "not a valid string literal: '%s'", str)
		return
	}

	i := 1
	for i < len(str) && str[i] != '"' {
		ctx.appendData(Cell{Value: uint16(str[i]), Type: CellData})
		i++
	}
	ctx.appendData(Cell{Value: 0, Type: CellData})

	if i != len(str)-1 {
		diags.Warnf(lineNo, "unclosed string literal: '%s'", str)
	}
}

func firstPassOperation(ctx *Context, diags *diag.Counter, lineNo int, clean string, col int) {
	mnemonic := lexer.Column(clean, col)
	op := asmtab.Lookup(mnemonic)
	if op == nil {
		diags.Errorf(lineNo, "invalid operation: %s", clean)
		return
	}

	operands := lexer.Column(clean, col+1)
	op1 := lexer.Subcolumn(operands, ',', 0)
	op2 := lexer.Subcolumn(operands, ',', 1)

	n := 0
	if op1 != "" {
		n++
	}
	if op2 != "" {
		n++
	}
	if n != op.Arity {
		diags.Errorf(lineNo, "wrong number of operands at '%s', expected %d, got %d", mnemonic, op.Arity, n)
		return
	}

	switch op.Arity {
	case 0:
		emitInstruction(ctx, op.Opcode, 0, 0, 0, 0)
	case 1:
		destMode, ok := asmtab.OperandMode(op1)
		if !ok || !op.LegalDest(destMode) {
			diags.Errorf(lineNo, "wrong destination addressing mode '%s'", op1)
			return
		}
		emitInstruction(ctx, op.Opcode, 0, 0, destMode, regOf(destMode, op1))
		emitPlaceholderIfNeeded(ctx, destMode)
	case 2:
		srcMode, ok := asmtab.OperandMode(op1)
		if !ok || !op.LegalSource(srcMode) {
			diags.Errorf(lineNo, "wrong source addressing mode '%s'", op1)
			return
		}
		destMode, ok := asmtab.OperandMode(op2)
		if !ok || !op.LegalDest(destMode) {
			diags.Errorf(lineNo, "wrong destination addressing mode '%s'", op2)
			return
		}
		emitInstruction(ctx, op.Opcode, srcMode, regOf(srcMode, op1), destMode, regOf(destMode, op2))
		emitPlaceholderIfNeeded(ctx, srcMode)
		emitPlaceholderIfNeeded(ctx, destMode)
	}
}

func regOf(mode asmtab.AddressingMode, operand string) uint8 {
	if mode == asmtab.DirectRegister || mode == asmtab.IndirectRegister {
		return asmtab.RegisterNumber(operand)
	}
	return 0
}

func emitInstruction(ctx *Context, opcode uint8, srcMode asmtab.AddressingMode, srcReg uint8, destMode asmtab.AddressingMode, destReg uint8) {
	word := encode(opcode, srcMode, destMode, srcReg, destReg)
	ctx.appendCode(Cell{Value: word, Type: CellAbsolute})
}

func emitPlaceholderIfNeeded(ctx *Context, mode asmtab.AddressingMode) {
	if mode.NeedsExtraWord() {
		ctx.appendCode(Cell{Value: 0xFFFF, Type: CellPlaceholder})
	}
}
