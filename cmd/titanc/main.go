package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	titan "github.com/titan-lang/titan"
)

func main() {
	var (
		outputDir = flag.String("output", ".", "Directory to write generated .c/.so files into")
		emitCOnly = flag.Bool("emit-c-only", false, "Stop after emitting C, skip invoking the C compiler")
		ccPath    = flag.String("cc", "cc", "Path to the host C compiler")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: titanc [flags] <module.titan>")
	}
	path := flag.Arg(0)

	opts := titan.NewCompilerOptions()
	opts.SetString("output.dir", *outputDir)
	opts.SetString("cc.path", *ccPath)

	driver := titan.NewDriver(opts)

	var result *titan.CompileResult
	var err error
	if *emitCOnly {
		result, err = driver.CompileFile(path)
	} else {
		result, err = driver.BuildFile(path)
	}
	if err != nil {
		log.Fatalf("titanc: %s", err)
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s: %s [%s]\n", d.Phase, d.Error(), d.Label)
	}
	if len(result.Diagnostics) > 0 {
		os.Exit(1)
	}

	if *emitCOnly {
		fmt.Print(result.CSource)
	}
}
