package buildergen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/nikki93/gxwgsl/compiler"
)

func compileCollision(t *testing.T) *compiler.Output {
	t.Helper()
	src, err := os.ReadFile("../examples/collision/collision.go")
	if err != nil {
		t.Fatal(err)
	}
	opts := compiler.DefaultOptions()
	opts.Validate = false
	out, err := compiler.CompileSource("collision.go", src, opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return out
}

func TestGenerate(t *testing.T) {
	out := compileCollision(t)
	code, err := Generate(out, Options{ModuleFile: "collision.module.json", Sources: []string{"collision.go"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := string(code)

	for _, want := range []string{
		"// Code generated by gxwgsl from collision.go. DO NOT EDIT.\n",
		"package collision\n",
		"//go:embed collision.module.json\nvar moduleJSON []byte\n",
		"func (b *ConfigInputDataBuilder) SetUniforms(value Uniforms) *ConfigInputDataBuilder {",
		"func (b *InputDataBuilder) SetPosition(values []Position) *InputDataBuilder {",
		"func (b *InputDataBuilder) SetRadius(values []Radius) *InputDataBuilder {",
		"// SetUniforms sets the uniforms config.\n",
		"// SetPosition sets the position input array.\n",
		"// SetCollisionResult sets the capacity of the collision_result output vec.\n",
		"func (b *MaxOutputLengthsBuilder) SetCollisionResult(length int) *MaxOutputLengthsBuilder {",
		"if length, ok := b.lengths.Lookup(\"CollisionResult\"); ok {\n",
		"return lengths.Bytes(\"CollisionResult\")\n",
		"CollisionResult []CollisionResult\n",
		"values, err := gpucompute.DecodeSlice[CollisionResult](raw)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("generated code is missing %q", want)
		}
	}
	if strings.Contains(got, "b.lengths.Get(") {
		t.Error("Finish copies outputs that were never set")
	}

	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, "collision_gen.go", code, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, code)
	}
	if !ast.IsGenerated(file) {
		t.Error("generated file is not marked as generated")
	}
	funcs := make(map[string]bool)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			funcs[fn.Name.Name] = true
		}
	}
	for _, name := range []string{
		"Module",
		"NewConfigInputDataBuilder",
		"NewInputDataBuilder",
		"NewMaxOutputLengthsBuilder",
		"MaxOutputBytes",
		"NewOutputData",
	} {
		if !funcs[name] {
			t.Errorf("missing func %s", name)
		}
	}
}

// A module without custom types still produces compilable builders, without
// the fmt import.
func TestGenerateEmptyModule(t *testing.T) {
	src := `package empty

import "github.com/nikki93/gxwgsl/wgsl"

func main(p wgsl.IterationPosition) {}
`
	opts := compiler.DefaultOptions()
	opts.Validate = false
	out, err := compiler.CompileSource("empty.go", []byte(src), opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	code, err := Generate(out, Options{ModuleFile: "empty.module.json"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := string(code)
	if strings.Contains(got, `"fmt"`) {
		t.Errorf("unused fmt import:\n%s", got)
	}
	if !strings.HasPrefix(got, "// Code generated by gxwgsl. DO NOT EDIT.\n") {
		t.Errorf("unexpected header:\n%s", got)
	}
	if !strings.Contains(got, "func MaxOutputBytes(lengths *gpucompute.MaxOutputLengths) uint64 {\n\treturn 0\n}") {
		t.Errorf("MaxOutputBytes should return 0:\n%s", got)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "empty_gen.go", code, 0); err != nil {
		t.Fatalf("generated code does not parse: %v", err)
	}
}

func TestGenerateRequiresModuleFile(t *testing.T) {
	if _, err := Generate(compileCollision(t), Options{}); err == nil {
		t.Error("expected error without a module file")
	}
}

func TestMethodName(t *testing.T) {
	tests := map[string]string{
		"position":        "Position",
		"CollisionResult": "CollisionResult",
		"x":               "X",
	}
	for in, want := range tests {
		if got := MethodName(in); got != want {
			t.Errorf("MethodName(%q) = %q, want %q", in, got, want)
		}
	}
}
