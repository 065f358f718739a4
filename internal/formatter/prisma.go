package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/erd2prisma/internal/compiler"
	"github.com/tordrt/erd2prisma/internal/model"
)

// DefaultSchemaFile is the name single-file output is saved under
const DefaultSchemaFile = "schema.prisma"

// PrismaFormatter writes a snapshot as a single Prisma schema
type PrismaFormatter struct {
	writer   io.Writer
	provider string
}

// NewPrismaFormatter creates a new Prisma formatter. An empty provider
// means compiler.DefaultProvider.
func NewPrismaFormatter(w io.Writer, provider string) *PrismaFormatter {
	return &PrismaFormatter{writer: w, provider: provider}
}

// Format writes the compiled schema
func (f *PrismaFormatter) Format(s model.Snapshot) error {
	result := compiler.CompileSnapshot(s, compiler.Options{Provider: f.provider})
	if _, err := io.WriteString(f.writer, result.Schema); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}
