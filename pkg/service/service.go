// Package service wraps the transpiler with metrics, history and logging.
package service

import (
	"github.com/sirupsen/logrus"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
	"github.com/Promptonauts/pipeforge/pkg/models"
	"github.com/Promptonauts/pipeforge/pkg/observability"
	"github.com/Promptonauts/pipeforge/pkg/renderers"
	"github.com/Promptonauts/pipeforge/pkg/store"
	"github.com/Promptonauts/pipeforge/pkg/transpiler"
)

// errKindCodec labels failures that are not one of the conversion error kinds.
const errKindCodec = "codec"

type Service struct {
	transpiler *transpiler.Transpiler
	metrics    *observability.ConversionMetrics
	history    store.Store
	log        logrus.FieldLogger
}

type Option func(*Service)

// WithHistory records every conversion in st.
func WithHistory(st store.Store) Option {
	return func(s *Service) { s.history = st }
}

func WithMetrics(m *observability.ConversionMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func New(t *transpiler.Transpiler, opts ...Option) *Service {
	if t == nil {
		t = transpiler.New(nil, nil)
	}
	s := &Service{transpiler: t}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observability.NewConversionMetrics(nil)
	}
	if s.log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		s.log = logger
	}
	return s
}

type Request struct {
	Source string
	Target string
	Name   string
	Input  []byte
}

type Response struct {
	Output   []byte
	Document *renderers.Document
	Pipeline *models.Pipeline
	// Record is nil when no history store is configured.
	Record *models.ConversionRecord
}

// Convert runs one conversion and records its outcome. A history write
// failure is logged and does not fail the conversion.
func (s *Service) Convert(req Request) (*Response, error) {
	done := s.metrics.Start(req.Target)
	out, res, err := s.transpiler.ConvertBytes(req.Input, req.Source, req.Target, req.Name)

	kind := ""
	if err != nil {
		kind = errKindCodec
		if k := errdefs.KindOf(err); k != "" {
			kind = string(k)
		}
	}
	elapsed := done(kind)

	rec := &models.ConversionRecord{
		Source:     req.Source,
		Target:     req.Target,
		InputBytes: len(req.Input),
		LatencyMs:  elapsed.Milliseconds(),
		State:      models.ConversionSucceeded,
	}
	if err != nil {
		rec.State = models.ConversionFailed
		rec.Error = err.Error()
		rec.PipelineName = req.Name
	} else {
		rec.PipelineName = res.Pipeline.Name
		rec.JobCount = len(res.Pipeline.Jobs)
		rec.OutputBytes = len(out)
	}

	stored := s.record(rec)

	entry := s.log.WithFields(logrus.Fields{
		"source":     req.Source,
		"target":     req.Target,
		"latency_ms": rec.LatencyMs,
	})
	if stored != nil {
		entry = entry.WithField("conversion_id", stored.ID)
	}
	if err != nil {
		entry.WithField("error_kind", kind).WithError(err).Warn("conversion failed")
		return nil, err
	}
	entry.WithFields(logrus.Fields{
		"pipeline": rec.PipelineName,
		"jobs":     rec.JobCount,
	}).Info("conversion succeeded")

	return &Response{Output: out, Document: res.Document, Pipeline: res.Pipeline, Record: stored}, nil
}

func (s *Service) record(rec *models.ConversionRecord) *models.ConversionRecord {
	if s.history == nil {
		return nil
	}
	if err := s.history.CreateConversion(rec); err != nil {
		s.log.WithError(err).Warn("history: record conversion")
		return nil
	}
	return rec
}

func (s *Service) History() store.Store {
	return s.history
}

func (s *Service) Metrics() *observability.MetricsRegistry {
	return s.metrics.Registry()
}

func (s *Service) Sources() []string {
	return s.transpiler.AvailableSources()
}

func (s *Service) Targets() []string {
	return s.transpiler.AvailableTargets()
}

func (s *Service) OutputHint(target string) (string, error) {
	return s.transpiler.OutputHint(target)
}
