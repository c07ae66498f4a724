// Package steps implements the named drawing capabilities a schema can
// reference and the registry the renderer resolves them through.
package steps

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
)

// Step draws one part of a document. It reads the context and appends
// commands to the builder; it must not keep either after returning.
type Step interface {
	Draw(doc *printing.DocumentContext, b *escpos.Builder) error
}

// StepFunc adapts a function to the Step interface
type StepFunc func(doc *printing.DocumentContext, b *escpos.Builder) error

// Draw calls f
func (f StepFunc) Draw(doc *printing.DocumentContext, b *escpos.Builder) error {
	return f(doc, b)
}

// Registry maps step names to steps. It is filled at startup and only
// read while rendering.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
	}
}

// NewDefaultRegistry creates a registry holding every built-in step
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, step := range builtins() {
		r.steps[name] = step
	}
	return r
}

func builtins() map[string]Step {
	return map[string]Step{
		printing.StepImage:       StepFunc(Image),
		printing.StepHeader:      StepFunc(Header),
		printing.StepDetails:     StepFunc(Details),
		printing.StepPayments:    StepFunc(Payments),
		printing.StepResume:      StepFunc(Resume),
		printing.StepSales:       StepFunc(Sales),
		printing.StepExpenses:    StepFunc(Expenses),
		printing.StepSignature:   StepFunc(Signature),
		printing.StepCreatedAt:   StepFunc(CreatedAt),
		printing.StepProcessedBy: StepFunc(ProcessedBy),
		printing.StepPoweredBy:   StepFunc(PoweredBy),
		printing.StepLinebreak:   StepFunc(Linebreak),
		printing.StepFinish:      StepFunc(Finish),
		printing.StepDrawLine:    StepFunc(DrawLine),
	}
}

// Register adds a step, replacing any step with the same name
func (r *Registry) Register(name string, step Step) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("step name cannot be empty")
	}
	if step == nil {
		return fmt.Errorf("step %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[name] = step
	return nil
}

// Lookup returns the step registered under name
func (r *Registry) Lookup(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	step, ok := r.steps[name]
	return step, ok
}

// Has reports whether a step is registered under name
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered step names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
