package remote

import (
	"context"
	"errors"
	"net"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"maia-engine/encode"
	"maia-engine/fen"
	"maia-engine/inference"
)

func serve(t *testing.T, e inference.Engine) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	Register(s, e, zap.NewNop().Sugar())
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	client, conn, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return client
}

func TestRoundTrip(t *testing.T) {
	board := encode.Encode(fen.MustParse(fen.StartPos))
	var got inference.Input
	client := serve(t, inference.EngineFunc(func(_ context.Context, in inference.Input) (inference.Output, error) {
		got = in
		return inference.Output{PolicyLogits: []float32{0.5, -1.25, 3}, ValueLogit: -0.75}, nil
	}))

	out, err := client.Run(context.Background(), inference.Input{Board: board, EloSelf: 4, EloOppo: 9})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.EloSelf != 4 || got.EloOppo != 9 {
		t.Errorf("server saw elo %d/%d", got.EloSelf, got.EloOppo)
	}
	if got.Board.Len() != encode.TensorLen {
		t.Fatalf("server saw %d board values", got.Board.Len())
	}
	for i := 0; i < encode.TensorLen; i++ {
		if got.Board.At(i) != board.At(i) {
			t.Fatalf("board value %d: got %v want %v", i, got.Board.At(i), board.At(i))
		}
	}
	want := []float32{0.5, -1.25, 3}
	if len(out.PolicyLogits) != len(want) {
		t.Fatalf("logits: got %v want %v", out.PolicyLogits, want)
	}
	for i := range want {
		if out.PolicyLogits[i] != want[i] {
			t.Fatalf("logits: got %v want %v", out.PolicyLogits, want)
		}
	}
	if out.ValueLogit != -0.75 {
		t.Errorf("value: got %v", out.ValueLogit)
	}
}

func TestEngineErrorIsWrapped(t *testing.T) {
	client := serve(t, inference.EngineFunc(func(context.Context, inference.Input) (inference.Output, error) {
		return inference.Output{}, errors.New("gpu on fire")
	}))
	_, err := client.Run(context.Background(), inference.Input{Board: encode.Encode(fen.MustParse(fen.StartPos))})
	if !errors.Is(err, inference.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

func TestClientRejectsBadBoard(t *testing.T) {
	client := NewClient(nil)
	if _, err := client.Run(context.Background(), inference.Input{}); !errors.Is(err, inference.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

func TestDecodeOutputMalformed(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"logits_value": 0.1})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if _, err := DecodeOutput(s); !errors.Is(err, inference.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	s, _ = structpb.NewStruct(map[string]any{"logits_maia": []any{1.0}})
	if _, err := DecodeOutput(s); !errors.Is(err, inference.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}
