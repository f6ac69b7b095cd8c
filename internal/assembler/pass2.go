package assembler

import (
	"github.com/gmofishsauce/tas/internal/asmtab"
	"github.com/gmofishsauce/tas/internal/diag"
	"github.com/gmofishsauce/tas/internal/lexer"
)

// PassTwo re-scans source, relocating symbols, backfilling the
// placeholder cells pass one left behind, and recording external
// references. It returns the number of errors recorded.
func PassTwo(ctx *Context, source []string, diags *diag.Counter) int {
	ctx.icFinal = uint16(len(ctx.Code))
	updateTables(ctx)

	cursor := 0
	for i, raw := range source {
		lineNo := i + 1

		clean := lexer.CleanLine(raw)
		if clean == "" || clean[0] == ';' {
			continue
		}

		secondPassLine(ctx, diags, lineNo, clean, 0, &cursor)
	}
	return diags.ErrorCount()
}

// updateTables performs the table-update phase of pass two (spec.md
// §4.5): relocating symbols of type 'r', resolving link-table
// entries against the symbol table, and appending the data image to
// the code image.
//
// The per-symbol link-table scan below indexes the link table with j,
// not with the symbol index i. The source this was distilled from
// indexes g_link_table with i inside this inner loop, which reads
// past the symbol's own index into an unrelated link-table slot
// whenever the two tables differ in length or order; this is
// corrected here (spec.md §9).
func updateTables(ctx *Context) {
	for i := range ctx.Symbols {
		if ctx.Symbols[i].Type == SymRelocatable {
			ctx.Symbols[i].Value += ctx.icFinal
		}
	}

	for i := range ctx.Symbols {
		for j := range ctx.Links {
			if ctx.Symbols[i].Name != ctx.Links[j].Name {
				continue
			}
			switch ctx.Links[j].Type {
			case LinkExtern:
				ctx.Symbols[i].Type = SymExternal
				ctx.Links[j].Value = ctx.Symbols[i].Value
			case LinkEntry:
				ctx.Links[j].Value = ctx.Symbols[i].Value
			}
		}
	}

	for _, d := range ctx.Data {
		ctx.appendCode(Cell{Value: d.Value, Type: CellData})
	}
}

func secondPassLine(ctx *Context, diags *diag.Counter, lineNo int, clean string, startCol int, cursor *int) {
	col := lexer.Column(clean, startCol)
	kind := asmtab.ClassifyColumn(col)

	switch kind {
	case asmtab.LabelDef:
		next := lexer.Column(clean, startCol+1)
		if asmtab.ClassifyColumn(next) == asmtab.OperationCol {
			secondPassLine(ctx, diags, lineNo, clean, startCol+1, cursor)
		}
		// directives were fully handled in pass one; nothing to do here.
	case asmtab.DirectiveData, asmtab.DirectiveString, asmtab.DirectiveEntry, asmtab.DirectiveExtern:
		// handled in pass one.
	case asmtab.OperationCol:
		secondPassOperation(ctx, diags, lineNo, clean, startCol, cursor)
	default:
		diags.Errorf(lineNo, "unknown column type: %s", col)
	}
}

func secondPassOperation(ctx *Context, diags *diag.Counter, lineNo int, clean string, col int, cursor *int) {
	mnemonic := lexer.Column(clean, col)
	op := asmtab.Lookup(mnemonic)
	if op == nil {
		diags.Errorf(lineNo, "invalid operation: %s", clean)
		return
	}

	operands := lexer.Column(clean, col+1)
	op1 := lexer.Subcolumn(operands, ',', 0)
	op2 := lexer.Subcolumn(operands, ',', 1)

	*cursor++ // skip the instruction word itself

	switch op.Arity {
	case 0:
		// nothing further: no operands, no extra words.
	case 1:
		backfillOperand(ctx, diags, lineNo, op1, cursor)
	case 2:
		backfillOperand(ctx, diags, lineNo, op1, cursor)
		backfillOperand(ctx, diags, lineNo, op2, cursor)
	}
}

// backfillOperand overwrites the placeholder cell at *cursor with the
// resolved operand word, if the operand's mode needs an extra word,
// and advances *cursor past it. Register-mode operands consume no
// cell and leave the cursor untouched.
func backfillOperand(ctx *Context, diags *diag.Counter, lineNo int, operand string, cursor *int) {
	mode, ok := asmtab.OperandMode(operand)
	if !ok {
		diags.Errorf(lineNo, "invalid operand: %s", operand)
		return
	}
	if !mode.NeedsExtraWord() {
		return
	}

	word, cellType, externName, resolved := resolveOperandWord(ctx, mode, operand)
	if !resolved {
		diags.Errorf(lineNo, "symbol not defined and not external: %s", externName)
	}

	if *cursor >= len(ctx.Code) {
		diags.Errorf(lineNo, "internal error: cursor past end of code image")
		return
	}
	ctx.Code[*cursor] = Cell{Value: word, Type: cellType}

	if cellType == CellExternal {
		ctx.Externs = append(ctx.Externs, ExternRef{Name: externName, Site: uint16(*cursor), Type: 'e'})
	}

	*cursor++
}

// resolveOperandWord computes the operand word, its relocation type,
// and (for an external or unresolvable DIRECT/INDIRECT operand) the
// bare symbol name; the name is empty for every other operand, per
// spec.md §4.5. resolved is false only for an unresolvable
// DIRECT/INDIRECT operand.
func resolveOperandWord(ctx *Context, mode asmtab.AddressingMode, operand string) (word uint16, cellType CellType, name string, resolved bool) {
	switch mode {
	case asmtab.Instant:
		return asmtab.ParseNumber(operand, 1), CellAbsolute, "", true

	case asmtab.Direct, asmtab.Indirect:
		bare := operand
		if mode == asmtab.Indirect {
			bare = operand[1:]
		}

		if sym := ctx.LookupSymbol(bare); sym != nil {
			if sym.Type == SymExternal {
				return 0, CellExternal, bare, true
			}
			ct := CellRelocatable
			if sym.Type == SymAbsolute {
				ct = CellAbsolute
			}
			return sym.Value, ct, "", true
		}

		if link := ctx.LookupLink(bare); link != nil && link.Type == LinkExtern {
			return 0xFFFF, CellExternal, bare, true
		}

		return 0xFFFF, CellAbsolute, bare, false

	default:
		// register modes need no extra word; callers never reach here.
		return 0, CellAbsolute, "", true
	}
}
