// Package selector picks a move for a position and a player strength: an
// opening book hit when there is one, otherwise a sample from the network's
// policy, flattened for players rated below the trained range.
package selector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maia-engine/book"
	"maia-engine/decode"
	"maia-engine/encode"
	"maia-engine/fen"
	"maia-engine/inference"
	"maia-engine/mirror"
	"maia-engine/movespace"
	"maia-engine/rules"
	"maia-engine/sample"
	"maia-engine/skill"
)

// Config holds the collaborators of a Selector. Index, Rules and Engine are
// required; the rest have defaults.
type Config struct {
	Index  *movespace.Index
	Rules  rules.Engine
	Engine inference.Engine
	Book   *book.Book

	Skill  skill.Categorizer
	Random sample.Source
	Log    *zap.SugaredLogger

	// Floor and Spread control blending for weak players.
	Floor  float64
	Spread float64
	// Timeout bounds each inference call when positive.
	Timeout time.Duration
}

type Selector struct {
	cfg     Config
	decoder *decode.Decoder
}

// Decision is the outcome of SelectMove. Evaluation carries the policy as
// decoded; BlendWeight is the uniform share used to sample Move.
type Decision struct {
	Move        string
	Evaluation  decode.Evaluation
	BlendWeight float64
}

func New(cfg Config) (*Selector, error) {
	if cfg.Index == nil || cfg.Rules == nil || cfg.Engine == nil {
		return nil, fmt.Errorf("selector: index, rules and engine are required")
	}
	if cfg.Skill == (skill.Categorizer{}) {
		cfg.Skill = skill.Trained
	}
	if cfg.Random == nil {
		cfg.Random = sample.Default()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	if cfg.Floor == 0 {
		cfg.Floor = DefaultFloor
	}
	if cfg.Spread == 0 {
		cfg.Spread = DefaultSpread
	}
	return &Selector{cfg: cfg, decoder: decode.New(cfg.Index)}, nil
}

// Evaluate runs the network on position and returns the decoded policy and
// value. Ratings are categorized as given and the book is not consulted.
func (s *Selector) Evaluate(ctx context.Context, position string, eloSelf, eloOppo float64) (decode.Evaluation, error) {
	p, err := fen.Parse(position)
	if err != nil {
		return decode.Evaluation{}, err
	}
	return s.infer(ctx, s.cfg.Log, p, eloSelf, eloOppo)
}

// SelectMove chooses a move for the side to move, rated eloSelf, against an
// opponent rated eloOppo.
func (s *Selector) SelectMove(ctx context.Context, position string, eloSelf, eloOppo float64) (Decision, error) {
	log := s.cfg.Log.With("request_id", uuid.NewString())
	p, err := fen.Parse(position)
	if err != nil {
		return Decision{}, err
	}

	mv, ok, err := s.cfg.Book.Lookup(p, s.cfg.Rules, s.cfg.Random)
	if err != nil {
		return Decision{}, fmt.Errorf("book lookup: %w", err)
	}
	if ok {
		log.Debugw("book move", "fen", position, "move", mv)
		return Decision{
			Move: mv,
			Evaluation: decode.Evaluation{
				Policy:   decode.Policy{mv: 1},
				Value:    0.5,
				FromBook: true,
			},
		}, nil
	}

	clamped := eloSelf
	if !(clamped >= s.cfg.Floor) {
		clamped = s.cfg.Floor
	}
	ev, err := s.infer(ctx, log, p, clamped, eloOppo)
	if err != nil {
		return Decision{}, err
	}

	t := BlendWeight(eloSelf, s.cfg.Floor, s.cfg.Spread)
	policy := Blend(ev.Policy, t)
	moves := policy.Moves()
	weights := make([]float64, len(moves))
	for i, m := range moves {
		weights[i] = policy[m]
	}
	mv, ok = sample.Weighted(s.cfg.Random, moves, weights)
	if !ok {
		return Decision{}, decode.ErrEmptyPolicy
	}
	log.Debugw("sampled move", "fen", position, "move", mv, "blend", t)
	return Decision{Move: mv, Evaluation: ev, BlendWeight: t}, nil
}

func (s *Selector) infer(ctx context.Context, log *zap.SugaredLogger, actual fen.Position, eloSelf, eloOppo float64) (decode.Evaluation, error) {
	canonical, mirrored, err := mirror.Canonicalize(actual)
	if err != nil {
		return decode.Evaluation{}, err
	}
	mask, err := encode.LegalMask(canonical, s.cfg.Rules, s.cfg.Index)
	if err != nil {
		return decode.Evaluation{}, err
	}
	if mask.Count() == 0 {
		return decode.Evaluation{}, decode.ErrEmptyPolicy
	}

	in := inference.Input{
		Board:   encode.Encode(canonical),
		EloSelf: s.cfg.Skill.Categorize(eloSelf),
		EloOppo: s.cfg.Skill.Categorize(eloOppo),
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := s.cfg.Engine.Run(ctx, in)
	if err != nil {
		log.Warnw("inference failed", "error", err)
		return decode.Evaluation{}, err
	}
	log.Debugw("inference", "elapsed", time.Since(start), "elo_self", in.EloSelf, "elo_oppo", in.EloOppo)
	if err := out.Validate(s.cfg.Index.Len()); err != nil {
		return decode.Evaluation{}, err
	}
	return s.decoder.Decode(actual, mirrored, out.PolicyLogits, out.ValueLogit, mask)
}
