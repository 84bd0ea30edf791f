package pattern

import (
	"fmt"
	"io"
	"os"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/internal/options"
)

// Warning is a non-fatal loading diagnostic carried by LoadResult.Warnings.
// Load itself produces none.
type Warning struct {
	Message string
}

// Option configures a Load/LoadFile call.
type Option func(*loadConfig) error

type loadConfig struct {
	filePath *string
	reader   io.Reader
	bytes    []byte

	registry       *datatype.Registry
	logger         Logger
	createManifest bool
	hasher         Hasher
	includeOrigins bool
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(c *loadConfig) error {
		c.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(c *loadConfig) error {
		if r == nil {
			return fmt.Errorf("pattern: reader cannot be nil")
		}
		c.reader = r
		return nil
	}
}

// WithBytes specifies an in-memory byte slice as the input source.
func WithBytes(b []byte) Option {
	return func(c *loadConfig) error {
		c.bytes = b
		return nil
	}
}

// WithRegistry overrides the datatype registry consulted during
// preparation. Defaults to datatype.NewRegistry().
func WithRegistry(r *datatype.Registry) Option {
	return func(c *loadConfig) error {
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger used during loading.
func WithLogger(l Logger) Option {
	return func(c *loadConfig) error {
		c.logger = l
		return nil
	}
}

// WithCreateManifest enables building a source-file manifest (§6.1).
func WithCreateManifest(enabled bool) Option {
	return func(c *loadConfig) error {
		c.createManifest = enabled
		return nil
	}
}

// WithHasher overrides the Hasher used for manifest entries. Defaults to
// FNVHasher.
func WithHasher(h Hasher) Option {
	return func(c *loadConfig) error {
		c.hasher = h
		return nil
	}
}

// WithElementPaths records whether origin paths are expected in the input.
// Load does not consult this setting.
func WithElementPaths(enabled bool) Option {
	return func(c *loadConfig) error {
		c.includeOrigins = enabled
		return nil
	}
}

func applyLoadOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		registry: datatype.NewRegistry(),
		logger:   NopLogger{},
		hasher:   FNVHasher{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"pattern: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"pattern: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadResult bundles a fully resolved-and-prepared Grammar with its
// namespace set and the optional manifest. Warnings is left empty by Load.
type LoadResult struct {
	Grammar    *Grammar
	Warnings   []Warning
	Manifest   *Manifest
	Namespaces map[string]bool
}

// Load reads a JSON tree (per WriteTreeToJSON's wire format) from the
// configured input source, resolves and prepares it, and returns the
// ready-to-walk Grammar.
func Load(opts ...Option) (*LoadResult, error) {
	cfg, err := applyLoadOptions(opts...)
	if err != nil {
		return nil, err
	}

	var data []byte
	var sourcePath string
	switch {
	case cfg.filePath != nil:
		sourcePath = *cfg.filePath
		data, err = os.ReadFile(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("pattern: reading %s: %w", sourcePath, err)
		}
	case cfg.reader != nil:
		data, err = io.ReadAll(cfg.reader)
		if err != nil {
			return nil, fmt.Errorf("pattern: reading input: %w", err)
		}
	case cfg.bytes != nil:
		data = cfg.bytes
	}

	cfg.logger.Debug("loading pattern tree", "bytes", len(data), "source", sourcePath)

	g, err := ReadTreeFromJSON(data, cfg.registry)
	if err != nil {
		return nil, err
	}

	if err := g.ResolveAll(); err != nil {
		return nil, err
	}
	namespaces, err := g.Prepare()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Grammar: g, Namespaces: namespaces}
	if cfg.createManifest && sourcePath != "" {
		result.Manifest = &Manifest{Entries: []ManifestEntry{
			{FilePath: sourcePath, Hash: cfg.hasher.Sum(data)},
		}}
	}
	return result, nil
}

// LoadFile is shorthand for Load(WithFilePath(path), opts...).
func LoadFile(path string, opts ...Option) (*LoadResult, error) {
	return Load(append([]Option{WithFilePath(path)}, opts...)...)
}
