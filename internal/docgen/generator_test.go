// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docgen

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

func testConfigs() (types.GenerateConfig, types.ValidationConfig) {
	gen := types.GenerateConfig{
		TitlePage:  true,
		TOCGuide:   true,
		HeaderMode: types.HeaderBanner,
	}
	val := types.ValidationConfig{
		RequiredFields: []string{"title"},
	}
	return gen, val
}

// twoSectionProject builds the canonical small project: two sections
// and one cited work.
func twoSectionProject(t *testing.T) *types.Project {
	t.Helper()
	p := project.New("Estudio de Caso")
	project.AddSection(p, types.Section{
		Heading: "Introducción",
		Body:    "Este trabajo examina el problema descrito por [Smith2020].\n\nSegundo párrafo.",
	})
	project.AddSection(p, types.Section{
		Heading: "Conclusión",
		Body:    "Los resultados confirman la hipótesis.",
	})
	if err := project.AddCitation(p, types.Citation{
		Key: "Smith2020", Type: types.CitationBook,
		Authors: []string{"Smith, J."}, Year: 2020,
		Title: "Case study methods", Source: "Academic Press",
	}); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunWritesDocument(t *testing.T) {
	genCfg, valCfg := testConfigs()
	var progress bytes.Buffer
	gen := New(genCfg, valCfg, zerolog.Nop(), &progress)

	out := filepath.Join(t.TempDir(), "estudio.docx")
	res, err := gen.Run(context.Background(), twoSectionProject(t), out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stage != StageWritten {
		t.Errorf("Stage = %s, want %s", res.Stage, StageWritten)
	}
	if res.Path != out {
		t.Errorf("Path = %q, want %q", res.Path, out)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}

	for _, want := range []string{"Validating", "Rendering", "Wrote"} {
		if !strings.Contains(progress.String(), want) {
			t.Errorf("progress missing %q:\n%s", want, progress.String())
		}
	}
}

// documentXML extracts word/document.xml from a generated .docx file.
func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found in archive")
	return ""
}

func TestRunDocumentLayout(t *testing.T) {
	genCfg, valCfg := testConfigs()
	gen := New(genCfg, valCfg, zerolog.Nop(), nil)

	out := filepath.Join(t.TempDir(), "estudio.docx")
	if _, err := gen.Run(context.Background(), twoSectionProject(t), out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	xml := documentXML(t, out)
	intro := strings.Index(xml, "Introducción")
	concl := strings.Index(xml, "Conclusión")
	refs := strings.Index(xml, "References")
	if intro < 0 || concl < 0 || refs < 0 {
		t.Fatalf("missing headings: intro=%d concl=%d refs=%d", intro, concl, refs)
	}
	if !(intro < concl && concl < refs) {
		t.Errorf("headings out of order: intro=%d concl=%d refs=%d", intro, concl, refs)
	}

	if !strings.Contains(xml, "(Smith, 2020)") {
		t.Error("body is missing the inline citation")
	}
	entry := "Smith, J. (2020). Case study methods. Academic Press."
	if n := strings.Count(xml, entry); n != 1 {
		t.Errorf("reference entry appears %d times, want 1", n)
	}
	if idx := strings.Index(xml, entry); idx >= 0 && idx < refs {
		t.Error("reference entry precedes the References heading")
	}

	// Contents, the first section, and References each open a page.
	if !strings.Contains(xml, "pageBreakBefore") {
		t.Error("document has no page-break-before paragraphs")
	}
}

func TestRunUnresolvedCitationFails(t *testing.T) {
	genCfg, valCfg := testConfigs()
	gen := New(genCfg, valCfg, zerolog.Nop(), nil)

	p := twoSectionProject(t)
	sec, err := project.SectionByHeading(p, "Conclusión")
	if err != nil {
		t.Fatal(err)
	}
	sec.Body += " Como sugiere [Ghost1999]."

	dir := t.TempDir()
	out := filepath.Join(dir, "estudio.docx")
	res, err := gen.Run(context.Background(), p, out)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if res.Stage != StageFailed {
		t.Errorf("Stage = %s, want %s", res.Stage, StageFailed)
	}

	// A failed run leaves nothing behind: no output, no temp file.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents after failed run = %v, want empty", names)
	}
}

func TestRunValidationFailureKeepsPreviousOutput(t *testing.T) {
	genCfg, valCfg := testConfigs()
	gen := New(genCfg, valCfg, zerolog.Nop(), nil)

	out := filepath.Join(t.TempDir(), "estudio.docx")
	if _, err := gen.Run(context.Background(), twoSectionProject(t), out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	bad := twoSectionProject(t)
	bad.Title = ""
	if _, err := gen.Run(context.Background(), bad, out); err == nil {
		t.Fatal("expected validation error")
	}

	after, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, after) {
		t.Error("failed run modified the previous output")
	}
}

func TestRunCancelledContext(t *testing.T) {
	genCfg, valCfg := testConfigs()
	gen := New(genCfg, valCfg, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "estudio.docx")
	res, err := gen.Run(ctx, twoSectionProject(t), out)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res.Stage != StageFailed {
		t.Errorf("Stage = %s, want %s", res.Stage, StageFailed)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("cancelled run wrote an output file")
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"single", "One paragraph.", 1},
		{"newline separated", "First.\nSecond.", 2},
		{"blank lines collapsed", "First.\n\n\nSecond.\n", 2},
		{"empty", "   \n \n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitParagraphs(tt.body); len(got) != tt.want {
				t.Errorf("splitParagraphs() = %v, want %d paragraphs", got, tt.want)
			}
		})
	}
}

func TestIsBlockQuote(t *testing.T) {
	long := `"` + strings.Repeat("word ", 45) + `end"`
	short := `"a short quote"`
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"long quotation", long, true},
		{"short quotation", short, false},
		{"long unquoted", strings.Repeat("word ", 50), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBlockQuote(tt.text); got != tt.want {
				t.Errorf("isBlockQuote() = %v, want %v", got, tt.want)
			}
		})
	}
}
