// Package assembler implements the two-pass assembler: symbol and
// link tables, the data and code images, and the pass-one/pass-two
// algorithms that populate them from source text.
package assembler

import "github.com/gmofishsauce/tas/internal/asmtab"

// SymbolType is the relocation class of a resolved symbol.
type SymbolType byte

const (
	SymAbsolute   SymbolType = 'a'
	SymRelocatable SymbolType = 'r'
	SymExternal   SymbolType = 'e'
)

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name  string
	Value uint16
	Type  SymbolType
}

// LinkType distinguishes a declared extern from a declared entry.
type LinkType byte

const (
	LinkExtern LinkType = 'e'
	LinkEntry  LinkType = 'n'
)

// Link is one entry of the link table: an .entry or .extern
// declaration, resolved in pass two.
type Link struct {
	Name  string
	Value uint16
	Type  LinkType
}

// CellType is the relocation tag of one object cell.
type CellType byte

const (
	CellAbsolute   CellType = 'a'
	CellRelocatable CellType = 'r'
	CellExternal   CellType = 'e'
	CellPlaceholder CellType = '?'
	CellData       CellType = ' '
)

// Cell is one 16-bit word of the final object image plus its
// relocation tag.
type Cell struct {
	Value uint16
	Type  CellType
}

// ExternRef is a back-reference from an unresolved code address to
// the external symbol that fills it.
type ExternRef struct {
	Name string
	Site uint16
	Type byte // always 'e'
}

// tableCap bounds the symbol, link, data and object tables. The
// source this was distilled from hard-codes 2000; Context raises it
// since nothing about the algorithm depends on the limit (spec.md §9).
const tableCap = 1 << 20

// Context holds everything that flows between pass one, pass two, and
// the serialiser: the symbol table, link table, data image, object
// code image and external-reference table. It replaces the five
// process-wide fixed arrays of the program this was distilled from
// with a single value created at program start and threaded by
// pointer through the pipeline (spec.md §9).
type Context struct {
	Symbols []Symbol
	Links   []Link
	Data    []Cell
	Code    []Cell
	Externs []ExternRef

	// icFinal is the code-image length as of the end of pass one,
	// captured at the start of pass two.
	icFinal uint16
}

// NewContext returns an empty, ready-to-use assembler context.
func NewContext() *Context {
	return &Context{}
}

// CodeLen returns the instruction-segment length captured at the
// start of pass two (IC_final in spec terms). Zero before PassTwo
// runs.
func (c *Context) CodeLen() int {
	return int(c.icFinal)
}

// LookupSymbol returns the symbol named name, or nil.
func (c *Context) LookupSymbol(name string) *Symbol {
	for i := range c.Symbols {
		if c.Symbols[i].Name == name {
			return &c.Symbols[i]
		}
	}
	return nil
}

// LookupLink returns the link-table entry named name, or nil.
func (c *Context) LookupLink(name string) *Link {
	for i := range c.Links {
		if c.Links[i].Name == name {
			return &c.Links[i]
		}
	}
	return nil
}

func (c *Context) addSymbol(s Symbol) bool {
	if len(c.Symbols) >= tableCap {
		return false
	}
	c.Symbols = append(c.Symbols, s)
	return true
}

func (c *Context) addLink(l Link) bool {
	if len(c.Links) >= tableCap {
		return false
	}
	c.Links = append(c.Links, l)
	return true
}

func (c *Context) appendData(cells ...Cell) bool {
	if len(c.Data)+len(cells) > tableCap {
		return false
	}
	c.Data = append(c.Data, cells...)
	return true
}

func (c *Context) appendCode(cells ...Cell) bool {
	if len(c.Code)+len(cells) > tableCap {
		return false
	}
	c.Code = append(c.Code, cells...)
	return true
}

// encode is a small adapter over asmtab.Encode for a fully resolved
// instruction.
func encode(opcode uint8, srcMode, destMode asmtab.AddressingMode, srcReg, destReg uint8) uint16 {
	return asmtab.Encode(asmtab.Instruction{
		Op:       opcode,
		SrcMode:  srcMode,
		SrcReg:   srcReg,
		DestMode: destMode,
		DestReg:  destReg,
	})
}
