package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/20orange/blockcodec/errs"
	"github.com/20orange/blockcodec/format"
)

// Constructor builds a codec instance from the ordered numeric configuration
// arguments, validating them against engine-reported bounds.
type Constructor func(args []uint64) (Codec, error)

// Registry maps codec names and wire method bytes to constructors.
//
// Builtin codecs register themselves with the default registry at package
// init. Registration of additional codecs normally also happens during
// program initialization; Construct and ForMethod are safe for concurrent use
// at any time.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Constructor
	byMethod map[format.Method]string
}

// NewRegistry returns an empty registry, independent of the default one.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]Constructor),
		byMethod: make(map[format.Method]string),
	}
}

// Register adds a codec without a wire method byte of its own. Variants
// whose output is read back under another codec's byte register this way:
// QATZSTD emits standard Zstandard frames dispatched through ZSTD.
func (r *Registry) Register(name string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("codec %q already registered", name)
	}
	r.byName[name] = ctor

	return nil
}

// RegisterWithMethod adds a codec and binds its wire method byte for
// reader-side dispatch.
func (r *Registry) RegisterWithMethod(name string, method format.Method, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("codec %q already registered", name)
	}
	if owner, ok := r.byMethod[method]; ok {
		return fmt.Errorf("method byte 0x%02x already registered to codec %q", byte(method), owner)
	}
	r.byName[name] = ctor
	r.byMethod[method] = name

	return nil
}

// Construct builds a codec from its registered name and the ordered numeric
// arguments produced by the configuration layer. Non-numeric literals must be
// rejected by that layer before they reach the registry.
//
// Unknown names fail with errs.ErrUnknownCodec; argument validation errors
// propagate unchanged from the codec's constructor.
func (r *Registry) Construct(name string, args ...uint64) (Codec, error) {
	r.mu.RLock()
	ctor, ok := r.byName[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownCodec, name)
	}

	return ctor(args)
}

// ForMethod builds a default-configured codec for the given wire method
// byte. Readers use it to dispatch a tagged block to its decompressor;
// construction parameters only shape the compression side, so a default
// instance always decodes.
func (r *Registry) ForMethod(method format.Method) (Codec, error) {
	r.mu.RLock()
	name, ok := r.byMethod[method]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: method byte 0x%02x", errs.ErrUnknownCodec, byte(method))
	}

	return r.Construct(name)
}

// Names returns the registered codec names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry preloaded with the builtin codecs.
func Default() *Registry { return defaultRegistry }

// Construct builds a codec from the default registry. See Registry.Construct.
func Construct(name string, args ...uint64) (Codec, error) {
	return defaultRegistry.Construct(name, args...)
}

// ForMethod builds a codec for a wire method byte from the default registry.
// See Registry.ForMethod.
func ForMethod(method format.Method) (Codec, error) {
	return defaultRegistry.ForMethod(method)
}

// mustRegister and mustRegisterWithMethod back the builtin init-time
// registrations, where a failure is a programmer error.
func mustRegister(name string, ctor Constructor) {
	if err := defaultRegistry.Register(name, ctor); err != nil {
		panic(err)
	}
}

func mustRegisterWithMethod(name string, method format.Method, ctor Constructor) {
	if err := defaultRegistry.RegisterWithMethod(name, method, ctor); err != nil {
		panic(err)
	}
}
