package templates

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"reqgen/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the document templates, one per document type
type Registry struct {
	templates map[models.DocumentType]*Template
	mu        sync.RWMutex
}

// NewRegistry creates a template registry and loads the embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		templates: make(map[models.DocumentType]*Template),
	}

	for _, docType := range models.DocumentTypes {
		if err := r.loadTemplateFile(docType); err != nil {
			return nil, fmt.Errorf("failed to load %s template: %w", docType, err)
		}
	}

	return r, nil
}

// loadTemplateFile loads one document type's YAML file
func (r *Registry) loadTemplateFile(docType models.DocumentType) error {
	filename := fmt.Sprintf("config/%s.yaml", docType)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if len(tmpl.Sections) == 0 {
		return fmt.Errorf("%s defines no sections", filename)
	}
	tmpl.Type = docType

	r.mu.Lock()
	r.templates[docType] = &tmpl
	r.mu.Unlock()

	return nil
}

// Get returns the template of a document type
func (r *Registry) Get(docType models.DocumentType) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[docType]
	if !ok {
		return nil, fmt.Errorf("unknown document type: %s", docType)
	}
	return tmpl, nil
}

// List returns every template in document type order
func (r *Registry) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Template, 0, len(r.templates))
	for _, docType := range models.DocumentTypes {
		if tmpl, ok := r.templates[docType]; ok {
			list = append(list, *tmpl)
		}
	}
	return list
}
