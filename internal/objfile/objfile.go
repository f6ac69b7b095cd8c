// Package objfile serialises an assembler.Context's final tables into
// the two on-disk formats: a sectioned ASCII object file, and (when
// no externs are present) a flat little-endian binary image.
package objfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gmofishsauce/tas/internal/assembler"
	"github.com/pkg/errors"
)

// WriteObject writes the sectioned ASCII object file for ctx to
// filename: a .cbegin/.cend code section, an .lbegin/.lend entry
// section, and an .ebegin/.eend extern section.
func WriteObject(filename string, ctx *assembler.Context, codeLen, dataLen int) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintln(w, ".cbegin")
	fmt.Fprintf(w, "%04x %04x\n", codeLen, dataLen)
	for addr, cell := range ctx.Code {
		typ := byte(cell.Type)
		fmt.Fprintf(w, "%04x %04x %c\n", addr, cell.Value, typ)
	}
	fmt.Fprintln(w, ".cend")

	fmt.Fprintln(w, ".lbegin")
	for _, l := range ctx.Links {
		if l.Type == assembler.LinkEntry {
			fmt.Fprintf(w, "%s %04x\n", l.Name, l.Value)
		}
	}
	fmt.Fprintln(w, ".lend")

	fmt.Fprintln(w, ".ebegin")
	for _, e := range ctx.Externs {
		fmt.Fprintf(w, "%s %04x\n", e.Name, e.Site)
	}
	fmt.Fprintln(w, ".eend")

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	return nil
}

// WriteBinary writes a flat little-endian binary image of ctx's final
// code image to filename, one 16-bit word per object cell.
func WriteBinary(filename string, ctx *assembler.Context) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, 2)
	for _, cell := range ctx.Code {
		binary.LittleEndian.PutUint16(buf, cell.Value)
		if _, err := w.Write(buf); err != nil {
			return errors.Wrapf(err, "write %s", filename)
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	return nil
}
