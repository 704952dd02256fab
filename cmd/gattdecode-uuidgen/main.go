// Command gattdecode-uuidgen generates the assigned characteristic UUID
// table of pkg/gattuuid from characteristics.yaml.
//
// Usage:
//
//	gattdecode-uuidgen -input characteristics.yaml -output names_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Path to the characteristics YAML")
	output := flag.String("output", "", "Output path for the generated Go file")
	pkg := flag.String("package", "gattuuid", "Package name of the generated file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: gattdecode-uuidgen -input <path> -output <path> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *output, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, pkg string) error {
	list, err := LoadAssigned(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	code, err := Generate(pkg, list)
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(output), err)
	}
	fmt.Printf("  generated %s (%d characteristics)\n", output, len(list))
	return nil
}

func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
