// Command cjit compiles a small C99 (subset) source file, binds one of its
// functions, calls it with command-line-supplied arguments, and prints the
// result. It is a thin demonstration of the compiler/jitengine/hostcall
// pipeline, in the flag-driven single-shot style of the retrieval pack's
// other cmd/ tools (e.g. cmd/stringgen), minus their GUI/asset bootstrap
// since cjit has nothing to wait on but one compile and one call.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/c99jit/compiler"
	"github.com/google/c99jit/jitengine"
)

var (
	source = flag.String("source", "", "path to a .c source file (required)")
	fn     = flag.String("fn", "", "name of the function to call (required)")
	dir    = flag.String("dir", "", "scratch directory for generated .ll/.so files (default: a temp dir)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cjit -source file.c -fn name [args...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(context.Background(), *source, *fn, *dir, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "cjit:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sourcePath, fnName, dir string, rawArgs []string) error {
	if sourcePath == "" || fnName == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag")
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	tc, err := jitengine.NewToolchain(dir)
	if err != nil {
		return err
	}

	prog, err := compiler.Compile(ctx, string(src), tc)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", sourcePath, err)
	}
	defer prog.Close()

	bound, err := prog.Bind(fnName)
	if err != nil {
		return err
	}

	args, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}

	result, err := bound.Call(args...)
	if err != nil {
		return fmt.Errorf("calling %s: %w", fnName, err)
	}

	fmt.Println(result)
	return nil
}

// parseArgs converts the CLI's bare string operands into int32 or float32
// values, the two scalar Go types hostcall.Call accepts for C int and
// float parameters. A value containing '.' is parsed as a float.
func parseArgs(rawArgs []string) ([]any, error) {
	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		if strings.Contains(raw, ".") {
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d (%q): %w", i, raw, err)
			}
			args[i] = float32(v)
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i, raw, err)
		}
		args[i] = int32(v)
	}
	return args, nil
}
