// Package recipe maps language identifiers to build/run specifications.
package recipe

import (
	"runtime"
	"strings"
)

// Kind is the recipe variant. Each variant's required parameters are
// explicit, so adding a language never needs a generic escape hatch.
type Kind int

const (
	// Interpreted invokes an interpreter directly on the source file.
	Interpreted Kind = iota
	// CompileFixedName compiles a source file whose name the toolchain
	// dictates, then runs the unit derived from that name.
	CompileFixedName
	// CompileBinary compiles to a binary at a per-run path, then runs it.
	CompileBinary
)

// Recipe is the immutable build/run specification for one language.
// Command templates use the placeholders {src}, {dir}, {bin}, {exe} and
// {main} (the fixed file name without its extension).
type Recipe struct {
	ID            string
	Name          string
	Extension     string
	Kind          Kind
	FixedFileName string
	CompileTpl    string
	RunTpl        string
}

// Command resolves the recipe into a single shell command. Compiled
// variants join compile and run with &&, so a compile failure surfaces as
// the chain's non-zero exit.
func (r Recipe) Command(sourcePath, workDir, binPath string) string {
	main := strings.TrimSuffix(r.FixedFileName, r.Extension)
	repl := strings.NewReplacer(
		"{src}", sourcePath,
		"{dir}", workDir,
		"{bin}", binPath,
		"{exe}", binPath+ExecutableSuffix(),
		"{main}", main,
	)
	run := repl.Replace(r.RunTpl)
	if r.CompileTpl == "" {
		return run
	}
	return repl.Replace(r.CompileTpl) + " && " + run
}

// ExecutableSuffix returns the platform suffix appended to compiled
// binaries by toolchains like gcc.
func ExecutableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Registry is the static language id -> recipe mapping. Pure and
// synchronous; safe for concurrent use after construction.
type Registry struct {
	recipes map[string]Recipe
	order   []string
}

// NewRegistry builds the registry with the built-in language set.
func NewRegistry() *Registry {
	return NewRegistryWith(builtinRecipes()...)
}

// NewRegistryWith builds a registry from an explicit recipe list.
func NewRegistryWith(recipes ...Recipe) *Registry {
	reg := &Registry{recipes: make(map[string]Recipe, len(recipes))}
	for _, rec := range recipes {
		if _, exists := reg.recipes[rec.ID]; exists {
			continue
		}
		reg.recipes[rec.ID] = rec
		reg.order = append(reg.order, rec.ID)
	}
	return reg
}

// Resolve returns the recipe for a language identifier.
func (g *Registry) Resolve(languageID string) (Recipe, bool) {
	rec, ok := g.recipes[languageID]
	return rec, ok
}

// List returns all recipes in registration order.
func (g *Registry) List() []Recipe {
	out := make([]Recipe, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.recipes[id])
	}
	return out
}

func builtinRecipes() []Recipe {
	return []Recipe{
		{
			ID:        "python",
			Name:      "Python 3",
			Extension: ".py",
			Kind:      Interpreted,
			RunTpl:    "python3 {src}",
		},
		{
			ID:        "javascript",
			Name:      "JavaScript (Node.js)",
			Extension: ".js",
			Kind:      Interpreted,
			RunTpl:    "node {src}",
		},
		{
			ID:         "c",
			Name:       "C (gcc)",
			Extension:  ".c",
			Kind:       CompileBinary,
			CompileTpl: "gcc {src} -o {bin}",
			RunTpl:     "{exe}",
		},
		{
			ID:         "cpp",
			Name:       "C++ (g++)",
			Extension:  ".cpp",
			Kind:       CompileBinary,
			CompileTpl: "g++ {src} -o {bin}",
			RunTpl:     "{exe}",
		},
		{
			ID:         "go",
			Name:       "Go",
			Extension:  ".go",
			Kind:       CompileBinary,
			CompileTpl: "go build -o {bin} {src}",
			RunTpl:     "{exe}",
		},
		{
			ID:            "java",
			Name:          "Java",
			Extension:     ".java",
			Kind:          CompileFixedName,
			FixedFileName: "Main.java",
			CompileTpl:    "javac {src}",
			RunTpl:        "java -cp {dir} {main}",
		},
	}
}
