package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchemaStore holds the schemas available for rendering. Shipped schemas
// can be overridden file by file from an external directory; extra
// schemas found there are loaded too.
type SchemaStore struct {
	externalDir string
	logger      *zap.Logger
	schemas     []StoredSchema
	mu          sync.RWMutex
}

// StoredSchema is a schema with its store metadata
type StoredSchema struct {
	ID        string // Stable ID derived from the name
	Schema    printing.Schema
	IsDefault bool
	// Source is "embedded", "external" or "registered"
	Source string
}

// SchemaStoreConfig configures the schema store
type SchemaStoreConfig struct {
	// ExternalDir is searched for *.yaml schema files. Empty means only
	// embedded schemas are used.
	ExternalDir string
	Logger      *zap.Logger
}

const (
	sourceEmbedded   = "embedded"
	sourceExternal   = "external"
	sourceRegistered = "registered"
)

// NewSchemaStore creates a schema store and loads every schema
func NewSchemaStore(config *SchemaStoreConfig) (*SchemaStore, error) {
	store := &SchemaStore{logger: zap.NewNop()}
	if config != nil {
		store.externalDir = config.ExternalDir
		if config.Logger != nil {
			store.logger = config.Logger
		}
	}

	if err := store.loadSchemas(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SchemaStore) loadSchemas() error {
	defaults := GetDefaultSchemas()
	schemas := make([]StoredSchema, 0, len(defaults))
	seen := make(map[string]bool, len(defaults))

	for _, ds := range defaults {
		content, source, err := s.loadSchemaContent(ds.FilePath)
		if err != nil {
			return fmt.Errorf("failed to load schema %s: %w", ds.Name, err)
		}
		schema, err := parseStoredSchema(content, ds.FilePath)
		if err != nil {
			return err
		}
		if schema.Name == "" {
			schema.Name = ds.Name
		}
		if schema.DocumentType == "" {
			schema.DocumentType = ds.DocType
		}
		seen[filepath.Base(ds.FilePath)] = true
		schemas = append(schemas, StoredSchema{
			ID:        generateSchemaID(schema.Name),
			Schema:    schema,
			IsDefault: ds.IsDefault,
			Source:    source,
		})
	}

	extra, err := s.loadExtraSchemas(seen)
	if err != nil {
		return err
	}
	schemas = append(schemas, extra...)

	s.mu.Lock()
	defer s.mu.Unlock()
	// registered schemas survive a reload unless a file now has the same name
	for _, existing := range s.schemas {
		if existing.Source == sourceRegistered && indexOf(schemas, existing.Schema.Name) < 0 {
			schemas = append(schemas, existing)
		}
	}
	s.schemas = schemas
	return nil
}

// loadSchemaContent prefers a same-named file in the external directory
func (s *SchemaStore) loadSchemaContent(embeddedPath string) ([]byte, string, error) {
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, filepath.Base(embeddedPath))
		if content, err := os.ReadFile(externalPath); err == nil {
			s.logger.Info("Using external schema", zap.String("path", externalPath))
			return content, sourceExternal, nil
		}
	}
	content, err := LoadSchemaContent(embeddedPath)
	return content, sourceEmbedded, err
}

func (s *SchemaStore) loadExtraSchemas(seen map[string]bool) ([]StoredSchema, error) {
	if s.externalDir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(s.externalDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas in %s: %w", s.externalDir, err)
	}
	sort.Strings(paths)

	var out []StoredSchema
	for _, path := range paths {
		if seen[filepath.Base(path)] {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		schema, err := parseStoredSchema(content, path)
		if err != nil {
			return nil, err
		}
		out = append(out, StoredSchema{
			ID:     generateSchemaID(schema.Name),
			Schema: schema,
			Source: sourceExternal,
		})
	}
	return out, nil
}

func parseStoredSchema(content []byte, path string) (printing.Schema, error) {
	schema, err := printing.ParseSchemaYAML(content)
	if err != nil {
		return printing.Schema{}, NewRenderError(ErrCodeSchemaInvalid, "failed to parse schema "+path, err)
	}
	if err := schema.Validate(); err != nil {
		return printing.Schema{}, NewRenderError(ErrCodeSchemaInvalid, "invalid schema "+path, err)
	}
	return schema, nil
}

// GetByName returns the schema with the given name
func (s *SchemaStore) GetByName(name string) (printing.Schema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.schemas, name); i >= 0 {
		return s.schemas[i].Schema, true
	}
	return printing.Schema{}, false
}

// GetByID returns a stored schema by its ID
func (s *SchemaStore) GetByID(id string) *StoredSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.schemas {
		if s.schemas[i].ID == id {
			found := s.schemas[i]
			return &found
		}
	}
	return nil
}

// GetDefault returns the default schema for a document type
func (s *SchemaStore) GetDefault(docType printing.DocType) (printing.Schema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.schemas {
		if stored.IsDefault && stored.Schema.DocumentType == docType {
			return stored.Schema, true
		}
	}
	return printing.Schema{}, false
}

// GetByDocType returns every schema for a document type
func (s *SchemaStore) GetByDocType(docType printing.DocType) []StoredSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []StoredSchema
	for _, stored := range s.schemas {
		if stored.Schema.DocumentType == docType {
			result = append(result, stored)
		}
	}
	return result
}

// GetAll returns all schemas
func (s *SchemaStore) GetAll() []StoredSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StoredSchema, len(s.schemas))
	copy(result, s.schemas)
	return result
}

// Register adds or replaces a schema at runtime. Replacing a shipped
// schema keeps its default flag.
func (s *SchemaStore) Register(schema printing.Schema) error {
	if err := schema.Validate(); err != nil {
		return NewRenderError(ErrCodeSchemaInvalid, "invalid schema", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := StoredSchema{
		ID:     generateSchemaID(schema.Name),
		Schema: schema,
		Source: sourceRegistered,
	}
	if i := indexOf(s.schemas, schema.Name); i >= 0 {
		stored.IsDefault = s.schemas[i].IsDefault
		s.schemas[i] = stored
		return nil
	}
	s.schemas = append(s.schemas, stored)
	return nil
}

// Reload reloads all schemas from disk and the embedded set
func (s *SchemaStore) Reload() error {
	return s.loadSchemas()
}

func indexOf(schemas []StoredSchema, name string) int {
	for i := range schemas {
		if schemas[i].Schema.Name == name {
			return i
		}
	}
	return -1
}

// generateSchemaID derives a stable UUID v5 from the schema name
func generateSchemaID(name string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // URL namespace
	return uuid.NewSHA1(namespace, []byte("print-schema:"+name)).String()
}
