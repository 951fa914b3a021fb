// Package shader builds linked GPU programs from vertex and fragment
// source text.
//
// A build is a one-shot operation: compile the vertex stage, compile the
// fragment stage, link. The first failure stops the build, releases every
// object created so far and is returned as a *CompileError or *LinkError.
// A successful build returns a *Program that owns its handle until Close.
package shader

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kjkrol/learngl/pkg/gpu"
)

// DefaultInfoLogLimit bounds the diagnostics kept from a failed compile or link.
const DefaultInfoLogLimit = 512

type Builder struct {
	driver   gpu.ShaderDriver
	logger   *slog.Logger
	logLimit int
	version  string
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithInfoLogLimit sets the maximum length of a captured diagnostic log.
// A limit of zero or less keeps the full log.
func WithInfoLogLimit(limit int) Option {
	return func(b *Builder) {
		b.logLimit = limit
	}
}

// WithVersionHeader prepends "#version <version>" to sources that do not
// declare one, e.g. WithVersionHeader("330 core").
func WithVersionHeader(version string) Option {
	return func(b *Builder) {
		b.version = version
	}
}

func NewBuilder(driver gpu.ShaderDriver, opts ...Option) *Builder {
	b := &Builder{
		driver:   driver,
		logger:   slog.Default(),
		logLimit: DefaultInfoLogLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pair holds the sources of a vertex and fragment stage built together.
type Pair struct {
	Vertex   string
	Fragment string
}

func (b *Builder) BuildPair(p Pair) (*Program, error) {
	return b.Build(p.Vertex, p.Fragment)
}

// Build compiles both stages and links them into a new program. Every call
// allocates a fresh program handle, identical sources are not deduplicated.
func (b *Builder) Build(vertexSource, fragmentSource string) (*Program, error) {
	vs, err := b.compile(gpu.Vertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := b.compile(gpu.Fragment, fragmentSource)
	if err != nil {
		b.driver.DeleteShader(vs)
		return nil, err
	}

	handle := b.driver.CreateProgram()
	b.driver.AttachShader(handle, vs)
	b.driver.AttachShader(handle, fs)
	b.driver.LinkProgram(handle)
	linked := b.driver.ProgramLinked(handle)

	// the linked program no longer needs its stages
	b.driver.DetachShader(handle, vs)
	b.driver.DetachShader(handle, fs)
	b.driver.DeleteShader(vs)
	b.driver.DeleteShader(fs)

	if !linked {
		log := b.diagnostic(b.driver.ProgramInfoLog(handle), "link failed (driver returned no log)")
		b.driver.DeleteProgram(handle)
		b.logger.Error("shader program link failed", "log", log)
		return nil, &LinkError{Log: log}
	}

	b.logger.Debug("shader program linked", "program", handle)
	return newProgram(b.driver, handle, b.logger), nil
}

func (b *Builder) compile(stage gpu.Stage, source string) (uint32, error) {
	if strings.TrimSpace(source) == "" {
		b.logger.Error("shader compile failed", "stage", stage, "err", ErrEmptySource)
		return 0, &CompileError{Stage: stage, Log: ErrEmptySource.Error(), Err: ErrEmptySource}
	}
	source = b.withVersion(source)

	handle := b.driver.CreateShader(stage)
	b.driver.ShaderSource(handle, source)
	b.driver.CompileShader(handle)
	if !b.driver.ShaderCompiled(handle) {
		log := b.diagnostic(b.driver.ShaderInfoLog(handle), "compile failed (driver returned no log)")
		b.driver.DeleteShader(handle)
		b.logger.Error("shader compile failed", "stage", stage, "log", log)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return handle, nil
}

func (b *Builder) withVersion(source string) string {
	if b.version == "" || strings.HasPrefix(strings.TrimLeft(source, " \t\r\n"), "#version") {
		return source
	}
	var sb strings.Builder
	sb.WriteString("#version " + b.version + "\n")
	sb.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// diagnostic bounds a driver info log, falling back to a fixed message when
// the driver reported failure without one.
func (b *Builder) diagnostic(log, fallback string) string {
	log = b.truncate(log)
	if strings.TrimSpace(log) == "" {
		return fallback
	}
	return log
}

// truncate cuts log to at most logLimit bytes without splitting a UTF-8
// sequence.
func (b *Builder) truncate(log string) string {
	log = strings.TrimRight(log, "\x00")
	if b.logLimit <= 0 || len(log) <= b.logLimit {
		return log
	}
	n := b.logLimit
	for n > 0 && !utf8.RuneStart(log[n]) {
		n--
	}
	return log[:n]
}
