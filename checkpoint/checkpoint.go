package checkpoint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
	"github.com/kbukum/datakit/tape"
	"github.com/kbukum/datakit/validation"
)

// PositionRecorder is the recording half of a checkpointable pipeline.
// data.Source and data.Pipeline both satisfy it.
type PositionRecorder interface {
	RecordPosition(t *tape.Tape) error
}

// PositionReloader is the restoring half of a checkpointable pipeline. The
// target must be in its initial (post-Reset) state before ReloadPosition.
type PositionReloader interface {
	ReloadPosition(ctx context.Context, t *tape.Tape) error
}

// Config configures where checkpoints are written.
type Config struct {
	// Dir is the directory checkpoint files are written to.
	Dir string `mapstructure:"dir" validate:"required"`
	// Prefix names the checkpoint files; defaults to "ckpt".
	Prefix string `mapstructure:"prefix"`
}

// ApplyDefaults fills in zero-valued optional fields.
func (c *Config) ApplyDefaults() {
	if c.Prefix == "" {
		c.Prefix = "ckpt"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics attaches metric instruments; save and restore operations are
// counted by kind and status.
func WithMetrics(m *observability.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// Manager persists pipeline positions to checkpoint files and restores them.
type Manager struct {
	cfg     Config
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewManager creates a checkpoint manager. The configured directory is
// created if it does not exist.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.IO("create checkpoint dir", err).WithDetail("dir", cfg.Dir)
	}
	m := &Manager{
		cfg: cfg,
		log: logger.WithComponent("checkpoint"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Save records the pipeline's position onto a fresh tape and writes it to a
// new uniquely named file under the configured directory. Returns the file
// path for a later Restore.
func (m *Manager) Save(ctx context.Context, rec PositionRecorder) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanCheckpointSave)
	defer span.End()

	path := filepath.Join(m.cfg.Dir, fmt.Sprintf("%s-%s.ckpt", m.cfg.Prefix, uuid.NewString()))
	span.SetAttributes(attribute.String(observability.AttrPath, path))

	t := tape.New()
	if err := rec.RecordPosition(t); err != nil {
		return "", m.fail(ctx, span, "save", err)
	}
	span.SetAttributes(attribute.Int(observability.AttrTokens, t.Len()))

	f, err := os.Create(path)
	if err != nil {
		return "", m.fail(ctx, span, "save", errors.IO("create checkpoint file", err).WithDetail("path", path))
	}
	if err := t.Save(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", m.fail(ctx, span, "save", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", m.fail(ctx, span, "save", errors.IO("close checkpoint file", err).WithDetail("path", path))
	}

	if m.metrics != nil {
		m.metrics.RecordCheckpoint(ctx, "save", "ok")
	}
	m.log.Info("checkpoint saved", logger.Fields(
		logger.FieldPath, path,
		"tokens", t.Len(),
	))
	return path, nil
}

// Restore reads the checkpoint file at path and reloads the pipeline's
// position from it. The target must be freshly constructed or reset. A tape
// that is not fully consumed by the reload indicates the checkpoint was
// taken from a differently shaped pipeline.
func (m *Manager) Restore(ctx context.Context, rel PositionReloader, path string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanCheckpointRestore,
		trace.WithAttributes(attribute.String(observability.AttrPath, path)))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return m.fail(ctx, span, "restore", errors.IO("open checkpoint file", err).WithDetail("path", path))
	}
	defer f.Close()

	t := tape.New()
	if err := t.Load(f); err != nil {
		return m.fail(ctx, span, "restore", err)
	}
	span.SetAttributes(attribute.Int(observability.AttrTokens, t.Len()))

	if err := rel.ReloadPosition(ctx, t); err != nil {
		return m.fail(ctx, span, "restore", err)
	}
	if t.Pos() != t.Len() {
		err := errors.CheckpointMismatch("tape not fully consumed").
			WithDetail("path", path).
			WithDetail("unread_tokens", t.Len()-t.Pos())
		return m.fail(ctx, span, "restore", err)
	}

	if m.metrics != nil {
		m.metrics.RecordCheckpoint(ctx, "restore", "ok")
	}
	m.log.Info("checkpoint restored", logger.Fields(
		logger.FieldPath, path,
		"tokens", t.Len(),
	))
	return nil
}

// List returns the paths of all checkpoint files under the configured
// directory matching the configured prefix, in lexical order.
func (m *Manager) List() ([]string, error) {
	pattern := filepath.Join(m.cfg.Dir, m.cfg.Prefix+"-*.ckpt")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.IO("list checkpoints", err).WithDetail("pattern", pattern)
	}
	return paths, nil
}

// Remove deletes the checkpoint file at path.
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return errors.IO("remove checkpoint file", err).WithDetail("path", path)
	}
	return nil
}

func (m *Manager) fail(ctx context.Context, span trace.Span, kind string, err error) error {
	span.RecordError(err)
	if m.metrics != nil {
		m.metrics.RecordCheckpoint(ctx, kind, "error")
	}
	m.log.Error("checkpoint "+kind+" failed", logger.ErrorFields(kind, err))
	return err
}
