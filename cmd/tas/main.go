// Command tas assembles a single source file for the toy 16-bit
// instruction set into a sectioned ASCII object file, or optionally a
// flat binary image.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmofishsauce/tas/internal/assembler"
	"github.com/gmofishsauce/tas/internal/diag"
	"github.com/gmofishsauce/tas/internal/objfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var listTables bool
	var noOutput bool
	var binary bool

	exitCode := 0

	root := &cobra.Command{
		Use:           "tas <source-file>",
		Short:         "two-pass assembler for the toy 16-bit instruction set",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, a []string) error {
			if len(a) != 1 {
				exitCode = 1
				return fmt.Errorf("expected exactly one source file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, a []string) error {
			code, err := assemble(a[0], listTables, noOutput, binary)
			exitCode = code
			return err
		},
	}

	root.Flags().BoolVarP(&listTables, "l", "l", false, "print symbol, link, extern, data and object tables after each pass")
	root.Flags().BoolVarP(&noOutput, "n", "n", false, "suppress output file creation")
	root.Flags().BoolVarP(&binary, "b", "b", false, "emit a flat binary image instead of the ASCII object file")
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func assemble(path string, listTables, noOutput, binary bool) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 1, errors.Wrapf(err, "unable to open %s", path)
	}

	basename := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	source := splitLines(string(raw))

	ctx := assembler.NewContext()

	passOneDiags := diag.NewCounter(basename)
	if errs := assembler.PassOne(ctx, source, passOneDiags); errs > 0 {
		passOneDiags.Emit(os.Stderr)
		return 2, nil
	}
	passOneDiags.Emit(os.Stderr)
	if listTables {
		printTables(os.Stdout, "pass one", ctx)
	}

	passTwoDiags := diag.NewCounter(basename)
	if errs := assembler.PassTwo(ctx, source, passTwoDiags); errs > 0 {
		passTwoDiags.Emit(os.Stderr)
		return 3, nil
	}
	passTwoDiags.Emit(os.Stderr)
	if listTables {
		printTables(os.Stdout, "pass two", ctx)
	}

	if noOutput {
		return 0, nil
	}

	if binary {
		for _, l := range ctx.Links {
			if l.Type == assembler.LinkExtern {
				return 4, fmt.Errorf("cannot emit binary output: source declares externs")
			}
		}
	}

	if binary {
		if err := objfile.WriteBinary(basename+".bin", ctx); err != nil {
			return 5, err
		}
		return 0, nil
	}

	codeLen := ctx.CodeLen()
	dataLen := len(ctx.Code) - codeLen
	if err := objfile.WriteObject(basename+".oc", ctx, codeLen, dataLen); err != nil {
		return 4, err
	}
	return 0, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func printTables(w *os.File, label string, ctx *assembler.Context) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintf(bw, "--- %s: symbol table ---\n", label)
	for _, s := range ctx.Symbols {
		fmt.Fprintf(bw, "%-16s %04x %c\n", s.Name, s.Value, s.Type)
	}

	fmt.Fprintf(bw, "--- %s: link table ---\n", label)
	for _, l := range ctx.Links {
		fmt.Fprintf(bw, "%-16s %04x %c\n", l.Name, l.Value, l.Type)
	}

	fmt.Fprintf(bw, "--- %s: extern table ---\n", label)
	for _, e := range ctx.Externs {
		fmt.Fprintf(bw, "%-16s %04x\n", e.Name, e.Site)
	}

	fmt.Fprintf(bw, "--- %s: data image ---\n", label)
	for i, d := range ctx.Data {
		fmt.Fprintf(bw, "%04x %04x\n", i, d.Value)
	}

	fmt.Fprintf(bw, "--- %s: object code ---\n", label)
	for i, c := range ctx.Code {
		fmt.Fprintf(bw, "%04x %04x %c\n", i, c.Value, c.Type)
	}
}
