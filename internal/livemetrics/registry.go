package livemetrics

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/logging"
)

// DefaultConfigDir is where per-type declarations live unless configured.
const DefaultConfigDir = "product/live_metrics"

// Config load outcomes reported to a LoadRecorder.
const (
	LoadOutcomeLoaded  = "loaded"
	LoadOutcomeMissing = "missing"
	LoadOutcomeInvalid = "invalid"
)

// MetricsConfig is the live metrics declaration of one entity type.
// It is immutable once loaded; callers must not modify its maps or slices.
type MetricsConfig struct {
	SupportedMetrics map[string]string `validate:"dive,keys,required,endkeys,required"`
	IncludedChildren []string          `validate:"dive,required"`
}

// LoadRecorder observes configuration loads.
type LoadRecorder interface {
	RecordConfigLoad(entityType, outcome string)
}

// Registry resolves and caches live metrics declarations per entity type.
// Entries are loaded on first access and kept for the life of the
// Registry; later changes to the backing files are not observed.
// A Registry is safe for concurrent use.
type Registry struct {
	fsys     fs.FS
	logger   *logging.Logger
	recorder LoadRecorder
	validate *validator.Validate
	loads    singleflight.Group

	mu       sync.RWMutex
	configs  map[string]*MetricsConfig
	byColumn map[string]map[string]string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for load diagnostics.
func WithRegistryLogger(logger *logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithLoadRecorder reports every load attempt to recorder.
func WithLoadRecorder(recorder LoadRecorder) RegistryOption {
	return func(r *Registry) {
		r.recorder = recorder
	}
}

// NewRegistry creates a registry reading declarations from fsys.
func NewRegistry(fsys fs.FS, opts ...RegistryOption) *Registry {
	r := &Registry{
		fsys:     fsys,
		logger:   logging.Default(),
		validate: validator.New(),
		configs:  make(map[string]*MetricsConfig),
		byColumn: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDirRegistry creates a registry reading declarations from dir.
func NewDirRegistry(dir string, opts ...RegistryOption) *Registry {
	return NewRegistry(os.DirFS(dir), opts...)
}

// Config returns the declaration for entityType, loading it on first use.
func (r *Registry) Config(entityType string) (*MetricsConfig, error) {
	if cfg, ok := r.cached(entityType); ok {
		return cfg, nil
	}

	v, err, _ := r.loads.Do(entityType, func() (interface{}, error) {
		if cfg, ok := r.cached(entityType); ok {
			return cfg, nil
		}
		cfg, err := r.load(entityType)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.configs[entityType] = cfg
		r.mu.Unlock()
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*MetricsConfig), nil
}

// SupportedMetrics returns the human key to metric identifier table.
func (r *Registry) SupportedMetrics(entityType string) (map[string]string, error) {
	cfg, err := r.Config(entityType)
	if err != nil {
		return nil, err
	}
	return cfg.SupportedMetrics, nil
}

// IncludedChildren returns the entity types whose metrics are also considered.
func (r *Registry) IncludedChildren(entityType string) ([]string, error) {
	cfg, err := r.Config(entityType)
	if err != nil {
		return nil, err
	}
	return cfg.IncludedChildren, nil
}

// SupportedMetricsByColumn returns the inverse of SupportedMetrics, computed
// once per entity type. If two keys share an identifier the lexically
// greatest key wins.
func (r *Registry) SupportedMetricsByColumn(entityType string) (map[string]string, error) {
	r.mu.RLock()
	inverse, ok := r.byColumn[entityType]
	r.mu.RUnlock()
	if ok {
		return inverse, nil
	}

	cfg, err := r.Config(entityType)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if inverse, ok := r.byColumn[entityType]; ok {
		return inverse, nil
	}
	inverse = invert(cfg.SupportedMetrics)
	r.byColumn[entityType] = inverse
	return inverse, nil
}

func (r *Registry) cached(entityType string) (*MetricsConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[entityType]
	return cfg, ok
}

func (r *Registry) load(entityType string) (*MetricsConfig, error) {
	if !ValidTypeName(entityType) {
		return nil, errors.NewValidationError("entity_type", fmt.Sprintf("invalid entity type name %q", entityType))
	}

	name := ConfigFileName(entityType)
	data, err := fs.ReadFile(r.fsys, name)
	if stderrors.Is(err, fs.ErrNotExist) {
		r.logger.DebugConfig("No live metrics configuration", entityType, "resource", name)
		r.record(entityType, LoadOutcomeMissing)
		return &MetricsConfig{SupportedMetrics: map[string]string{}}, nil
	}
	if err != nil {
		return nil, errors.WrapConfigError(errors.CodeConfiguration,
			"Failed to read live metrics configuration", err).WithResource(name)
	}

	cfg, err := parseConfig(data)
	if err == nil {
		err = r.validate.Struct(cfg)
	}
	if err != nil {
		r.record(entityType, LoadOutcomeInvalid)
		return nil, errors.ErrMetricValidation(name, err)
	}

	r.logger.DebugConfig("Loaded live metrics configuration", entityType,
		"resource", name,
		"supported_metrics", len(cfg.SupportedMetrics),
		"included_children", len(cfg.IncludedChildren))
	r.record(entityType, LoadOutcomeLoaded)
	return cfg, nil
}

func (r *Registry) record(entityType, outcome string) {
	if r.recorder != nil {
		r.recorder.RecordConfigLoad(entityType, outcome)
	}
}

// document is the on-disk shape of a declaration.
type document struct {
	SupportedMetrics yaml.Node `yaml:"supported_metrics"`
	IncludedChildren []string  `yaml:"included_children"`
}

func parseConfig(data []byte) (*MetricsConfig, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	supported, err := flattenGroups(&doc.SupportedMetrics)
	if err != nil {
		return nil, err
	}

	return &MetricsConfig{
		SupportedMetrics: supported,
		IncludedChildren: doc.IncludedChildren,
	}, nil
}

// flattenGroups merges a sequence of mappings left to right. A single
// mapping is taken as-is.
func flattenGroups(node *yaml.Node) (map[string]string, error) {
	merged := make(map[string]string)

	switch node.Kind {
	case 0:
		return merged, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return merged, nil
		}
		return nil, fmt.Errorf("line %d: supported_metrics must be a sequence of mappings", node.Line)
	case yaml.MappingNode:
		if err := node.Decode(&merged); err != nil {
			return nil, err
		}
		return merged, nil
	case yaml.SequenceNode:
		for i, group := range node.Content {
			if group.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: supported_metrics[%d] must be a mapping", group.Line, i)
			}
			var values map[string]string
			if err := group.Decode(&values); err != nil {
				return nil, err
			}
			for key, id := range values {
				merged[key] = id
			}
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported supported_metrics node", node.Line)
	}
}

func invert(forward map[string]string) map[string]string {
	keys := make([]string, 0, len(forward))
	for key := range forward {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inverse := make(map[string]string, len(forward))
	for _, key := range keys {
		inverse[forward[key]] = key
	}
	return inverse
}
