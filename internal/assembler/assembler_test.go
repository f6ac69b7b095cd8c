package assembler_test

import (
	"testing"

	"github.com/gmofishsauce/tas/internal/assembler"
	"github.com/gmofishsauce/tas/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, source []string) (*assembler.Context, *diag.Counter, *diag.Counter) {
	t.Helper()
	ctx := assembler.NewContext()
	d1 := diag.NewCounter("t.as")
	require.Equal(t, 0, assembler.PassOne(ctx, source, d1))
	d2 := diag.NewCounter("t.as")
	assembler.PassTwo(ctx, source, d2)
	return ctx, d1, d2
}

func TestHlt(t *testing.T) {
	ctx, _, d2 := assemble(t, []string{"hlt"})
	require.Equal(t, 0, d2.ErrorCount())
	require.Len(t, ctx.Code, 1)
	assert.Equal(t, uint16(0xF000), ctx.Code[0].Value)
	assert.Equal(t, assembler.CellAbsolute, ctx.Code[0].Type)
}

func TestMovInstantToRegister(t *testing.T) {
	ctx, _, d2 := assemble(t, []string{"mov #-1, r2"})
	require.Equal(t, 0, d2.ErrorCount())
	require.Len(t, ctx.Code, 2)
	assert.Equal(t, uint16(0x001A), ctx.Code[0].Value)
	assert.Equal(t, uint16(0xFFFF), ctx.Code[1].Value)
	assert.Equal(t, assembler.CellAbsolute, ctx.Code[0].Type)
	assert.Equal(t, assembler.CellAbsolute, ctx.Code[1].Type)
}

func TestEntryOverData(t *testing.T) {
	ctx, _, d2 := assemble(t, []string{".entry L", "L: .data 7,8"})
	require.Equal(t, 0, d2.ErrorCount())
	require.Len(t, ctx.Code, 2)
	assert.Equal(t, uint16(7), ctx.Code[0].Value)
	assert.Equal(t, uint16(8), ctx.Code[1].Value)
	assert.Equal(t, assembler.CellData, ctx.Code[0].Type)
	assert.Equal(t, assembler.CellData, ctx.Code[1].Type)

	require.Len(t, ctx.Links, 1)
	assert.Equal(t, "L", ctx.Links[0].Name)
	assert.Equal(t, uint16(0), ctx.Links[0].Value)
	assert.Empty(t, ctx.Externs)
}

func TestExternJsr(t *testing.T) {
	ctx, _, d2 := assemble(t, []string{".extern K", "  jsr K"})
	require.Equal(t, 0, d2.ErrorCount())
	require.Len(t, ctx.Code, 2)
	assert.Equal(t, assembler.CellExternal, ctx.Code[1].Type)

	require.Len(t, ctx.Externs, 1)
	assert.Equal(t, "K", ctx.Externs[0].Name)
	assert.Equal(t, uint16(1), ctx.Externs[0].Site)
}

func TestForwardReference(t *testing.T) {
	ctx, _, d2 := assemble(t, []string{"mov A, r3", "A: .data 42"})
	require.Equal(t, 0, d2.ErrorCount())
	require.Len(t, ctx.Code, 3)
	assert.Equal(t, uint16(2), ctx.Code[1].Value)
	assert.Equal(t, assembler.CellRelocatable, ctx.Code[1].Type)
	assert.Equal(t, uint16(42), ctx.Code[2].Value)
	assert.Equal(t, assembler.CellData, ctx.Code[2].Type)

	sym := ctx.LookupSymbol("A")
	require.NotNil(t, sym)
	assert.Equal(t, uint16(2), sym.Value)
}

func TestDuplicateSymbol(t *testing.T) {
	ctx := assembler.NewContext()
	d := diag.NewCounter("t.as")
	errs := assembler.PassOne(ctx, []string{"X: .data 1", "X: .data 2"}, d)
	assert.Equal(t, 1, errs)
}

func TestStringRoundTrip(t *testing.T) {
	ctx := assembler.NewContext()
	d := diag.NewCounter("t.as")
	assembler.PassOne(ctx, []string{`.string "ABC"`}, d)
	require.Equal(t, 0, d.ErrorCount())
	require.Len(t, ctx.Data, 4)
	assert.Equal(t, uint16('A'), ctx.Data[0].Value)
	assert.Equal(t, uint16('B'), ctx.Data[1].Value)
	assert.Equal(t, uint16('C'), ctx.Data[2].Value)
	assert.Equal(t, uint16(0), ctx.Data[3].Value)
}

func TestNoPlaceholdersSurvivePassTwo(t *testing.T) {
	ctx, _, _ := assemble(t, []string{".extern K", "mov A, r3", "jsr K", "A: .data 1"})
	for _, c := range ctx.Code {
		assert.NotEqual(t, assembler.CellPlaceholder, c.Type)
	}
}

func TestDataPlacementMatchesDataImage(t *testing.T) {
	ctx, _, _ := assemble(t, []string{"hlt", ".data 5,6,7"})
	codeLen := ctx.CodeLen()
	tail := ctx.Code[codeLen:]
	require.Len(t, tail, len(ctx.Data))
	for i, d := range ctx.Data {
		assert.Equal(t, d.Value, tail[i].Value)
	}
}
