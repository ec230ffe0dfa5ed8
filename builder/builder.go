package builder

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/form"
	"formspec/hydrator"
	"formspec/inputfilter"
	"formspec/ledger"
	"formspec/spec"
)

// KindHandler applies an item of an application-defined kind to the node
// being assembled. It runs after the built-in kinds of the same item list.
type KindHandler func(node *spec.ElementSpec, item annotation.Item) error

// Builder assembles specifications and realizes them.
type Builder struct {
	provider  annotation.Provider
	ordering  ledger.Ordering
	logger    *zap.Logger
	forms     *form.Factory
	inputs    *inputfilter.Factory
	hydrators *hydrator.Registry
	handlers  map[annotation.Kind]KindHandler
}

// Option configures a Builder.
type Option func(*Builder)

// WithProvider sets the metadata provider. The default reads struct tags.
func WithProvider(p annotation.Provider) Option {
	return func(b *Builder) {
		if p != nil {
			b.provider = p
		}
	}
}

// WithPreserveDefinedOrder orders children as declared instead of by priority.
func WithPreserveDefinedOrder(preserve bool) Option {
	return func(b *Builder) {
		b.ordering = ledger.ByPriority
		if preserve {
			b.ordering = ledger.Declared
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithFormFactory sets the factory realizing presentation nodes.
func WithFormFactory(f *form.Factory) Option {
	return func(b *Builder) {
		if f != nil {
			b.forms = f
		}
	}
}

// WithInputFilterFactory sets the factory realizing validation nodes.
func WithInputFilterFactory(f *inputfilter.Factory) Option {
	return func(b *Builder) {
		if f != nil {
			b.inputs = f
		}
	}
}

// WithHydrators sets the hydrator registry.
func WithHydrators(r *hydrator.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.hydrators = r
		}
	}
}

// WithKindHandler registers a handler for an application-defined kind.
func WithKindHandler(kind annotation.Kind, h KindHandler) Option {
	return func(b *Builder) {
		if h != nil {
			b.handlers[kind] = h
		}
	}
}

// Config is the declarative subset of the builder options.
type Config struct {
	PreserveDefinedOrder bool   `mapstructure:"preserve_defined_order"`
	TagKey               string `mapstructure:"tag_key"`
}

// DecodeConfig decodes a raw configuration map.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return cfg, err
	}

	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("decode builder config: %w", err)
	}

	return cfg, nil
}

// FromConfig applies cfg. A tag key replaces the provider with a reflect
// provider reading that key.
func FromConfig(cfg Config) Option {
	return func(b *Builder) {
		WithPreserveDefinedOrder(cfg.PreserveDefinedOrder)(b)

		if cfg.TagKey != "" {
			b.provider = annotation.NewReflectProvider(annotation.WithTagKey(cfg.TagKey))
		}
	}
}

// New returns a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		provider:  annotation.NewReflectProvider(),
		ordering:  ledger.ByPriority,
		logger:    zap.NewNop(),
		forms:     form.NewFactory(),
		inputs:    inputfilter.NewFactory(),
		hydrators: hydrator.NewRegistry(),
		handlers:  make(map[annotation.Kind]KindHandler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Provider returns the metadata provider.
func (b *Builder) Provider() annotation.Provider { return b.provider }

// Ordering returns the child ordering policy.
func (b *Builder) Ordering() ledger.Ordering { return b.ordering }

// GetFormSpecification assembles the specification of a class without
// realizing it. classOrObject is anything the provider resolves: a class
// name, a ClassRef, or a value of the class. A pointer is bound on
// realization.
func (b *Builder) GetFormSpecification(classOrObject any) (*spec.ElementSpec, error) {
	ref, instance, err := b.provider.Resolve(classOrObject)
	if err != nil {
		return nil, err
	}

	s := b.newSession()

	root, err := s.assembleClass(ref, spec.NodeForm)
	if err != nil {
		b.logger.Debug("specification failed", zap.Stringer("class", ref), zap.Error(err))

		return nil, err
	}

	if instance != nil {
		root.Object = instance
	}

	root.Diagnostics = &s.diags

	for _, d := range s.diags.All() {
		b.logDiagnostic(d)
	}

	return root, nil
}

// CreateForm assembles and realizes a form. The validation tree is reachable
// through the form's InputFilter.
func (b *Builder) CreateForm(classOrObject any) (*form.Form, error) {
	sp, err := b.GetFormSpecification(classOrObject)
	if err != nil {
		return nil, err
	}

	el, err := b.Realize(sp)
	if err != nil {
		return nil, err
	}

	f, ok := el.(*form.Form)
	if !ok {
		return nil, fmt.Errorf("builder: root type %q realizes %T, not a form", sp.Type, el)
	}

	return f, nil
}

func (b *Builder) logDiagnostic(d diagnostic.Diagnostic) {
	fields := []zap.Field{
		zap.String("code", d.Code),
		zap.String("class", d.Class),
		zap.String("member", d.Member),
	}

	if len(d.Suggestions) > 0 {
		fields = append(fields, zap.Strings("suggestions", d.Suggestions))
	}

	if ce := b.logger.Check(d.Severity.Level(), d.Message); ce != nil {
		ce.Write(fields...)
	}
}

// session holds the state of one build call.
type session struct {
	b        *Builder
	ordering ledger.Ordering
	stack    []annotation.ClassRef
	diags    diagnostic.Diagnostics
}

func (b *Builder) newSession() *session {
	return &session{b: b, ordering: b.ordering}
}
