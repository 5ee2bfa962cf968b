// Command vfexplain parses a chart expression, compiles it to the
// backend logical-expression algebra, and pretty-prints both stages —
// a debug aid in the spirit of the teacher's own ad hoc struct-dump
// demo commands, but reaching for k0kubun/pp instead of hand-rolled
// fmt.Printf formatting so nested AST/expression trees stay readable.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/k0kubun/pp"

	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/expr/parser"
	"vegafusion-go/internal/value"
)

func main() {
	expr := flag.String("expr", "datum.a + datum.b * 2", "chart expression to parse and compile")
	flag.Parse()

	fmt.Printf("expression: %s\n\n", *expr)

	node, err := parser.Parse(*expr)
	if err != nil {
		log.Fatalf("parse error: %v", err)
	}
	fmt.Println("--- AST ---")
	pp.Println(node)

	schema := value.NewSchema(
		value.Field{Name: "a", Type: value.FieldFloat},
		value.Field{Name: "b", Type: value.FieldFloat},
	)
	logical, err := compiler.Compile(node, &compiler.Config{Schema: schema})
	if err != nil {
		log.Fatalf("compile error: %v", err)
	}
	fmt.Println("\n--- logical expression ---")
	pp.Println(logical)
}
