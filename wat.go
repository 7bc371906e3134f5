// Package wat is the public entry point to the WebAssembly text-format
// front-end: a thin wrapper over internal/wat's grammar engine, mirroring
// the teacher's own thin-top-level-wrapper convention.
package wat

import (
	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
	"github.com/tetratelabs/wazero-wat/internal/wat"
)

// TokenSource, Token, TokenType, and the diagnostic/binary-reader
// collaborator types are re-exported so callers never need to import
// internal/wat directly.
type (
	TokenSource         = wat.TokenSource
	Token               = wat.Token
	TokenType           = wat.TokenType
	ErrorHandler        = wat.ErrorHandler
	Severity            = wat.Severity
	FormatError         = wat.FormatError
	ErrorList           = wat.ErrorList
	BinaryReader        = wat.BinaryReader
	BinaryReaderOptions = wat.BinaryReaderOptions
)

const (
	SeverityError   = wat.SeverityError
	SeverityWarning = wat.SeverityWarning
)

// Option configures a Parse/ParseModule call.
type Option func(*config)

type config struct {
	features     api.CoreFeatures
	errorHandler ErrorHandler
	binaryReader BinaryReader
}

// WithFeatures gates optional-proposal grammar (§5) the parser recognizes.
// The default, used when this option is absent, accepts the WebAssembly
// 1.0 (20191205) core grammar only.
func WithFeatures(features api.CoreFeatures) Option {
	return func(c *config) { c.features = features }
}

// WithErrorHandler routes every diagnostic the parser reports (§6, §7) to
// handler, in addition to the aggregated *ErrorList Parse/ParseModule
// returns.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) { c.errorHandler = handler }
}

// WithBinaryReader supplies the external collaborator (C12) used to decode
// a script's "(module binary ...)" commands. Without a BinaryReader, Parse
// leaves each such command's RawModule as parsed (Bytes set, Module nil)
// and reports no diagnostic for it.
func WithBinaryReader(reader BinaryReader) Option {
	return func(c *config) { c.binaryReader = reader }
}

func newParser(opts []Option) (*wat.Parser, *config) {
	cfg := &config{features: api.CoreFeatures(0)}
	for _, opt := range opts {
		opt(cfg)
	}
	var reporter wat.Reporter
	if cfg.errorHandler != nil {
		reporter = wat.NewReporter(cfg.errorHandler)
	}
	return wat.NewParser(cfg.features, reporter), cfg
}

// ParseModule parses a single "(module ...)" unit's field list from
// source - the opening "(module" must already have been consumed by the
// caller, matching the shape a script's ParseScript also expects for a
// nested module (§3 "Module", MODULE LAYOUT).
func ParseModule(source TokenSource, opts ...Option) (*wasm.Module, error) {
	p, _ := newParser(opts)
	c := wat.NewCursor(source)
	m := p.ParseModule(c)
	if err := parseResult(p); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse parses a full script - zero or more top-level commands, the
// surface form every `.wast` file and every bare `.wat` module alike is
// expressed in (a lone module is just a one-command script) - resolving
// every script-level module/action reference via the Script Composer
// (C11) and dispatching any binary module payload through the configured
// BinaryReader (C12).
func Parse(source TokenSource, opts ...Option) (*wasm.Script, error) {
	p, cfg := newParser(opts)
	c := wat.NewCursor(source)
	s := p.ParseScript(c)

	if cfg.binaryReader != nil {
		wat.DispatchBinaryModules(s, cfg.binaryReader, BinaryReaderOptions{}, p)
	}

	if err := parseResult(p); err != nil {
		return nil, err
	}
	return s, nil
}

func parseResult(p *wat.Parser) error {
	errs := p.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &ErrorList{Errors: errs}
}
