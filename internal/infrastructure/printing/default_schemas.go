package printing

import (
	"embed"
	"fmt"

	"github.com/erp/posprint/internal/domain/printing"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// DefaultSchema describes a schema shipped with the binary
type DefaultSchema struct {
	Name     string
	DocType  printing.DocType
	FilePath string // Path within embed.FS
	// IsDefault marks the schema used when a request names only a
	// document type
	IsDefault bool
}

// GetDefaultSchemas returns every embedded schema
func GetDefaultSchemas() []DefaultSchema {
	return []DefaultSchema{
		{
			Name:      printing.SchemaCashflowRegular,
			DocType:   printing.DocTypeCashflowRegular,
			FilePath:  "schemas/cashflow_regular.yaml",
			IsDefault: true,
		},
		{
			Name:      printing.SchemaCashflowClosing,
			DocType:   printing.DocTypeCashflowClosing,
			FilePath:  "schemas/cashflow_closing.yaml",
			IsDefault: true,
		},
		{
			Name:     "cashflow_closing_compact",
			DocType:  printing.DocTypeCashflowClosing,
			FilePath: "schemas/cashflow_closing_compact.yaml",
		},
	}
}

// LoadSchemaContent reads an embedded schema file
func LoadSchemaContent(filePath string) ([]byte, error) {
	content, err := schemaFS.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", filePath, err)
	}
	return content, nil
}
