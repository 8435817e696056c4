// Package maia predicts human chess moves. It wires a move vocabulary, a
// rules engine, an optional opening book and a network backend into one
// value that evaluates positions and picks skill-dependent moves.
package maia

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"maia-engine/book"
	"maia-engine/config"
	"maia-engine/decode"
	"maia-engine/inference"
	"maia-engine/inference/onnx"
	"maia-engine/inference/remote"
	"maia-engine/logging"
	"maia-engine/movespace"
	"maia-engine/rules"
	"maia-engine/sample"
	"maia-engine/selector"
	"maia-engine/skill"
)

type Maia struct {
	selector *selector.Selector
	log      *zap.SugaredLogger
	closers  []func() error
}

type options struct {
	engine inference.Engine
	random sample.Source
	log    *zap.SugaredLogger
	book   *book.Book
	index  *movespace.Index
}

type Option func(*options)

// WithEngine replaces the configured inference backend.
func WithEngine(e inference.Engine) Option { return func(o *options) { o.engine = e } }

// WithRandom sets the random source used for book and policy sampling.
func WithRandom(src sample.Source) Option { return func(o *options) { o.random = src } }

func WithLogger(log *zap.SugaredLogger) Option { return func(o *options) { o.log = log } }

// WithBook replaces the configured book source.
func WithBook(b *book.Book) Option { return func(o *options) { o.book = b } }

// WithVocabulary replaces the configured move vocabulary.
func WithVocabulary(idx *movespace.Index) Option { return func(o *options) { o.index = idx } }

// New builds a Maia from cfg. Resources opened here are released by Close.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Maia, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Maia{log: o.log}
	if m.log == nil {
		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		m.log = log
	}

	r, err := rules.New(cfg.Rules)
	if err != nil {
		return nil, err
	}

	idx := o.index
	if idx == nil {
		if idx, err = loadVocabulary(cfg.VocabularyPath); err != nil {
			return nil, err
		}
	}

	b := o.book
	if b == nil {
		if b, err = m.loadBook(ctx, cfg); err != nil {
			m.Close()
			return nil, err
		}
	}

	engine := o.engine
	if engine == nil {
		if engine, err = m.openEngine(cfg, idx.Len()); err != nil {
			m.Close()
			return nil, err
		}
	}

	m.selector, err = selector.New(selector.Config{
		Index:   idx,
		Rules:   r,
		Engine:  engine,
		Book:    b,
		Skill:   skill.Trained,
		Random:  o.random,
		Log:     m.log,
		Floor:   cfg.EloFloor,
		Spread:  cfg.BlendSpread,
		Timeout: cfg.InferenceTimeout,
	})
	if err != nil {
		m.Close()
		return nil, err
	}
	m.log.Infow("maia ready", "engine", cfg.Engine, "rules", cfg.Rules, "vocabulary", idx.Len(), "book_positions", b.Len())
	return m, nil
}

func loadVocabulary(path string) (*movespace.Index, error) {
	if path == "" {
		return movespace.Generate(), nil
	}
	return movespace.LoadFile(path)
}

func (m *Maia) loadBook(ctx context.Context, cfg *config.Config) (*book.Book, error) {
	switch cfg.BookSource {
	case config.BookFile:
		return book.LoadFile(cfg.BookPath)
	case config.BookRedis:
		src := book.NewRedisSource(cfg.RedisAddr, cfg.RedisKey)
		defer src.Close()
		return src.Load(ctx)
	case config.BookMongo:
		src, err := book.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		defer src.Close(ctx)
		return src.Load(ctx)
	default:
		return nil, nil
	}
}

func (m *Maia) openEngine(cfg *config.Config, policySize int) (inference.Engine, error) {
	switch cfg.Engine {
	case config.EngineRemote:
		client, conn, err := remote.Dial(cfg.RemoteAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, conn.Close)
		return client, nil
	case config.EngineONNX:
		s, err := onnx.New(onnx.Options{
			ModelPath:   cfg.ModelPath,
			LibraryPath: cfg.OrtLibrary,
			PolicySize:  policySize,
			Threads:     cfg.OrtThreads,
		})
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown ENGINE %q", config.ErrConfig, cfg.Engine)
	}
}

// Evaluate returns the network's policy and win probability for the side to
// move. The opening book is not consulted.
func (m *Maia) Evaluate(ctx context.Context, fen string, eloSelf, eloOppo float64) (decode.Evaluation, error) {
	return m.selector.Evaluate(ctx, fen, eloSelf, eloOppo)
}

// SelectMove picks a move the way a player rated eloSelf would.
func (m *Maia) SelectMove(ctx context.Context, fen string, eloSelf, eloOppo float64) (selector.Decision, error) {
	return m.selector.SelectMove(ctx, fen, eloSelf, eloOppo)
}

// Close releases the inference backend and flushes the logger.
func (m *Maia) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	_ = m.log.Sync()
	return first
}

var _ io.Closer = (*Maia)(nil)
