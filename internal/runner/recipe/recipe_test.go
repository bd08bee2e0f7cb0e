package recipe

import (
	"runtime"
	"strings"
	"testing"

	"codepad/internal/template"
)

func TestResolveKnownLanguages(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"python", "javascript", "c", "cpp", "go", "java"} {
		rec, ok := reg.Resolve(id)
		if !ok {
			t.Fatalf("expected recipe for %s", id)
		}
		if rec.ID != id {
			t.Fatalf("recipe id mismatch: %s != %s", rec.ID, id)
		}
		if rec.Extension == "" || rec.RunTpl == "" {
			t.Fatalf("incomplete recipe for %s: %+v", id, rec)
		}
	}
}

func TestResolveUnknownLanguage(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Resolve("cobol"); ok {
		t.Fatal("expected no recipe for unknown language")
	}
}

func TestInterpretedCommand(t *testing.T) {
	reg := NewRegistry()
	rec, _ := reg.Resolve("python")
	cmd := rec.Command("/work/s_ab12.py", "/work", "/work/bin_ab12")
	if cmd != "python3 /work/s_ab12.py" {
		t.Fatalf("unexpected command: %s", cmd)
	}
}

func TestCompileBinaryCommand(t *testing.T) {
	reg := NewRegistry()
	rec, _ := reg.Resolve("c")
	cmd := rec.Command("/work/s_ab12.c", "/work", "/work/bin_ab12")
	want := "gcc /work/s_ab12.c -o /work/bin_ab12 && /work/bin_ab12"
	if runtime.GOOS == "windows" {
		want = "gcc /work/s_ab12.c -o /work/bin_ab12 && /work/bin_ab12.exe"
	}
	if cmd != want {
		t.Fatalf("unexpected command: %s", cmd)
	}
}

func TestFixedNameCommand(t *testing.T) {
	reg := NewRegistry()
	rec, _ := reg.Resolve("java")
	if rec.FixedFileName != "Main.java" {
		t.Fatalf("unexpected fixed file name: %s", rec.FixedFileName)
	}
	cmd := rec.Command("/work/run_ab12/Main.java", "/work/run_ab12", "/work/run_ab12/bin_ab12")
	if !strings.HasPrefix(cmd, "javac /work/run_ab12/Main.java && ") {
		t.Fatalf("unexpected compile step: %s", cmd)
	}
	if !strings.HasSuffix(cmd, "java -cp /work/run_ab12 Main") {
		t.Fatalf("unexpected run step: %s", cmd)
	}
}

func TestListIsStable(t *testing.T) {
	reg := NewRegistry()
	first := reg.List()
	second := reg.List()
	if len(first) != len(second) || len(first) == 0 {
		t.Fatalf("unexpected list sizes: %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("list order differs at %d: %s != %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestEveryLanguageHasStarterTemplate(t *testing.T) {
	for _, rec := range NewRegistry().List() {
		if _, ok := template.Starter(rec.ID); !ok {
			t.Fatalf("missing starter template for %s", rec.ID)
		}
	}
}
