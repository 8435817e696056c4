package bench

import (
	"context"
	"testing"

	"maia-engine/decode"
	"maia-engine/encode"
	"maia-engine/fen"
	"maia-engine/inference"
	"maia-engine/mirror"
	"maia-engine/movespace"
	"maia-engine/rules"
	"maia-engine/sample"
	"maia-engine/selector"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
	afterE4  = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
)

func benchLegalMoves(b *testing.B, name, position string) {
	e, err := rules.New(name)
	if err != nil {
		b.Fatalf("rules.New: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.LegalMoves(position); err != nil {
			b.Fatalf("LegalMoves: %v", err)
		}
	}
}

func BenchmarkLegalMoves_Goose_Kiwipete(b *testing.B) {
	benchLegalMoves(b, rules.NameGoose, kiwipete)
}

func BenchmarkLegalMoves_Dragontooth_Kiwipete(b *testing.B) {
	benchLegalMoves(b, rules.NameDragontooth, kiwipete)
}

func BenchmarkLegalMoves_Notnil_Kiwipete(b *testing.B) {
	benchLegalMoves(b, rules.NameNotnil, kiwipete)
}

func benchEncode(b *testing.B, position string) {
	p := fen.MustParse(position)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		canonical, _, err := mirror.Canonicalize(p)
		if err != nil {
			b.Fatalf("Canonicalize: %v", err)
		}
		_ = encode.Encode(canonical)
	}
}

func BenchmarkEncode_Initial(b *testing.B) { benchEncode(b, fen.StartPos) }

func BenchmarkEncode_Mirrored(b *testing.B) { benchEncode(b, afterE4) }

func BenchmarkLegalMask_Pos6(b *testing.B) {
	p := fen.MustParse(pos6)
	idx := movespace.Generate()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := encode.LegalMask(p, rules.Goose{}, idx); err != nil {
			b.Fatalf("LegalMask: %v", err)
		}
	}
}

func BenchmarkDecode_Kiwipete(b *testing.B) {
	p := fen.MustParse(kiwipete)
	idx := movespace.Generate()
	mask, err := encode.LegalMask(p, rules.Goose{}, idx)
	if err != nil {
		b.Fatalf("LegalMask: %v", err)
	}
	logits := make([]float32, idx.Len())
	for i := range logits {
		logits[i] = float32(i%23) * 0.1
	}
	d := decode.New(idx)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Decode(p, false, logits, 0.1, mask); err != nil {
			b.Fatalf("Decode: %v", err)
		}
	}
}

func BenchmarkSelectMove_Stub(b *testing.B) {
	idx := movespace.Generate()
	logits := make([]float32, idx.Len())
	engine := inference.EngineFunc(func(context.Context, inference.Input) (inference.Output, error) {
		return inference.Output{PolicyLogits: logits}, nil
	})
	s, err := selector.New(selector.Config{
		Index:  idx,
		Rules:  rules.Goose{},
		Engine: engine,
		Random: sample.NewSequence(0.1, 0.5, 0.9),
	})
	if err != nil {
		b.Fatalf("selector.New: %v", err)
	}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.SelectMove(ctx, afterE4, 900, 1500); err != nil {
			b.Fatalf("SelectMove: %v", err)
		}
	}
}
