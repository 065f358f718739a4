package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/erd2prisma/internal/compiler"
	"github.com/tordrt/erd2prisma/internal/model"
)

func blogSnapshot() model.Snapshot {
	return model.Snapshot{
		Tables: []model.Table{
			{ID: "a", Name: "author", Fields: []model.Field{
				{Name: "id", Type: "Int_autoinc", PK: true, Unique: true},
				{Name: "email", Type: "String", Unique: true},
			}},
			{ID: "b", Name: "book", Fields: []model.Field{
				{Name: "id", Type: "Int_autoinc", PK: true, Unique: true},
				{Name: "genre", Type: "Genre", Nullable: true},
			}},
		},
		Relations: []model.Relation{{ID: "r", SourceTableID: "a", TargetTableID: "b", Cardinality: model.OneToMany}},
		Enums:     []model.Enum{{Name: "Genre", Values: []string{"FICTION", "POETRY"}}},
	}
}

func TestPrismaFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrismaFormatter(&buf, "mysql").Format(blogSnapshot()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := compiler.CompileSnapshot(blogSnapshot(), compiler.Options{Provider: "mysql"}).Schema
	if buf.String() != want {
		t.Errorf("Format() wrote\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf).Format(blogSnapshot()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"# ERD Design",
		"## Enums",
		"- **Genre:** FICTION | POETRY",
		"## Author",
		"- **id:** Int_autoinc, PK",
		"- **email:** String, UNIQUE",
		"### Relations",
		"- → Book (1:N, one-to-many)",
		"## Book",
		"- **genre:** Genre, NULL",
	}
	for _, s := range expected {
		if !strings.Contains(output, s) {
			t.Errorf("Expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestMarkdownFormatterEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	s := model.Snapshot{Tables: []model.Table{{ID: "x"}}}
	if err := NewMarkdownFormatter(&buf).Format(s); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(buf.String(), "## X\n\n### Fields\n\n_No fields_") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "## Enums") {
		t.Errorf("empty enum section should be omitted:\n%s", buf.String())
	}
}

func TestFormatCardinality(t *testing.T) {
	tests := []struct {
		in   model.Cardinality
		want string
	}{
		{model.OneToOne, "1:1, one-to-one"},
		{model.OneToMany, "1:N, one-to-many"},
		{model.ManyToMany, "N:N, many-to-many"},
		{"", "1:N, one-to-many"},
		{"sideways", "1:N, one-to-many"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if got := FormatCardinality(tt.in); got != tt.want {
				t.Errorf("FormatCardinality(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMultiFilePrisma(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prisma")

	if err := NewMultiFileFormatter(dir, FormatPrisma, "").Format(blogSnapshot()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	result := compiler.CompileSnapshot(blogSnapshot(), compiler.Options{})

	head := readFile(t, filepath.Join(dir, "schema.prisma"))
	if head != result.Header+result.Enums[0].Text {
		t.Errorf("schema.prisma =\n%s", head)
	}

	for _, m := range result.Models {
		got := readFile(t, filepath.Join(dir, m.Name+".prisma"))
		if got != m.Text {
			t.Errorf("%s.prisma =\n%s\nwant:\n%s", m.Name, got, m.Text)
		}
	}
}

func TestMultiFilePrismaDuplicateModels(t *testing.T) {
	dir := t.TempDir()
	s := model.Snapshot{Tables: []model.Table{
		{ID: "1", Name: "user", Fields: []model.Field{{Name: "a", Type: "Int"}}},
		{ID: "2", Name: "user", Fields: []model.Field{{Name: "b", Type: "Int"}}},
	}}

	if err := NewMultiFileFormatter(dir, FormatPrisma, "").Format(s); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := readFile(t, filepath.Join(dir, "User.prisma"))
	want := "model User {\n  a Int\n}\n\nmodel User {\n  b Int\n}\n"
	if got != want {
		t.Errorf("User.prisma =\n%q\nwant:\n%q", got, want)
	}
}

func TestMultiFileMarkdown(t *testing.T) {
	dir := t.TempDir()

	if err := NewMultiFileFormatter(dir, FormatMarkdown, "").Format(blogSnapshot()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	overview := readFile(t, filepath.Join(dir, "_overview.md"))
	for _, s := range []string{"# ERD Overview", "- **Genre:** FICTION | POETRY", "- **Author** (references: Book)", "- **Book**\n"} {
		if !strings.Contains(overview, s) {
			t.Errorf("Expected overview to contain %q, got:\n%s", s, overview)
		}
	}

	book := readFile(t, filepath.Join(dir, "Book.md"))
	if !strings.Contains(book, "### Referenced by\n\n- Author (1:N, one-to-many)") {
		t.Errorf("Book.md missing incoming relation:\n%s", book)
	}
}

func TestMultiFileMarkdownDuplicateModels(t *testing.T) {
	dir := t.TempDir()
	s := model.Snapshot{Tables: []model.Table{
		{ID: "1", Name: "user", Fields: []model.Field{{Name: "first_table_field", Type: "Int"}}},
		{ID: "2", Name: "user", Fields: []model.Field{{Name: "second_table_field", Type: "Int"}}},
	}}

	if err := NewMultiFileFormatter(dir, FormatMarkdown, "").Format(s); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := readFile(t, filepath.Join(dir, "User.md"))
	if n := strings.Count(got, "## User\n"); n != 2 {
		t.Errorf("Expected 2 User sections, got %d:\n%s", n, got)
	}
	for _, field := range []string{"first_table_field", "second_table_field"} {
		if !strings.Contains(got, field) {
			t.Errorf("User.md missing %s:\n%s", field, got)
		}
	}
}

func TestMultiFileStaysInOutputDir(t *testing.T) {
	s := model.Snapshot{Tables: []model.Table{
		{ID: "1", Name: "../escaped", Fields: []model.Field{{Name: "id", Type: "Int", PK: true}}},
		{ID: "2", Name: `nested/child\win`, Fields: []model.Field{{Name: "id", Type: "Int", PK: true}}},
	}}

	tests := []struct {
		format    string
		wantFiles []string
	}{
		{format: FormatPrisma, wantFiles: []string{".._escaped.prisma", "Nested_child_win.prisma"}},
		{format: FormatMarkdown, wantFiles: []string{".._escaped.md", "Nested_child_win.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "out")

			if err := NewMultiFileFormatter(dir, tt.format, "").Format(s); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			entries, err := os.ReadDir(root)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			if len(entries) != 1 || entries[0].Name() != "out" {
				var names []string
				for _, e := range entries {
					names = append(names, e.Name())
				}
				t.Errorf("files written outside the output directory: %v", names)
			}

			for _, name := range tt.wantFiles {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("Expected %s in output directory: %v", name, err)
				}
			}
		})
	}
}

func TestModelFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "User", want: "User.prisma"},
		{name: "../etc", want: ".._etc.prisma"},
		{name: "/abs", want: "_abs.prisma"},
		{name: `a\b`, want: "a_b.prisma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := modelFileName(tt.name, ".prisma")
			if err != nil {
				t.Fatalf("modelFileName(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("modelFileName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
