// Package remote serves and calls an inference engine over gRPC. Messages are
// google.protobuf.Struct values so no generated code is needed.
package remote

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"maia-engine/encode"
	"maia-engine/inference"
)

const (
	ServiceName = "maia.v1.Inference"
	RunMethod   = "/" + ServiceName + "/Run"
)

// Client is an inference.Engine backed by a remote server.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to target. Callers close the returned connection.
func Dial(target string, opts ...grpc.DialOption) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial %s: %w", inference.ErrEngine, target, err)
	}
	return NewClient(conn), conn, nil
}

func (c *Client) Run(ctx context.Context, in inference.Input) (inference.Output, error) {
	req, err := EncodeInput(in)
	if err != nil {
		return inference.Output{}, err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, RunMethod, req, resp); err != nil {
		return inference.Output{}, fmt.Errorf("%w: remote run: %w", inference.ErrEngine, err)
	}
	return DecodeOutput(resp)
}

// EncodeInput builds the request message.
func EncodeInput(in inference.Input) (*structpb.Struct, error) {
	planes, err := in.Planes()
	if err != nil {
		return nil, err
	}
	board := make([]any, len(planes))
	for i, v := range planes {
		board[i] = float64(v)
	}
	s, err := structpb.NewStruct(map[string]any{
		"board":    board,
		"elo_self": in.EloSelf,
		"elo_oppo": in.EloOppo,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", inference.ErrEngine, err)
	}
	return s, nil
}

// DecodeInput reads a request message.
func DecodeInput(s *structpb.Struct) (inference.Input, error) {
	f := s.GetFields()
	list := f["board"].GetListValue()
	if list == nil {
		return inference.Input{}, fmt.Errorf("%w: request has no board", inference.ErrEngine)
	}
	values := make([]float32, len(list.GetValues()))
	for i, v := range list.GetValues() {
		values[i] = float32(v.GetNumberValue())
	}
	in := inference.Input{
		Board:   encode.FromValues(values),
		EloSelf: int(f["elo_self"].GetNumberValue()),
		EloOppo: int(f["elo_oppo"].GetNumberValue()),
	}
	return in, in.Validate()
}

// EncodeOutput builds the response message.
func EncodeOutput(out inference.Output) (*structpb.Struct, error) {
	logits := make([]any, len(out.PolicyLogits))
	for i, l := range out.PolicyLogits {
		logits[i] = float64(l)
	}
	s, err := structpb.NewStruct(map[string]any{
		"logits_maia":  logits,
		"logits_value": float64(out.ValueLogit),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode response: %w", inference.ErrEngine, err)
	}
	return s, nil
}

// DecodeOutput reads a response message.
func DecodeOutput(s *structpb.Struct) (inference.Output, error) {
	f := s.GetFields()
	list := f["logits_maia"].GetListValue()
	if list == nil {
		return inference.Output{}, fmt.Errorf("%w: response has no logits_maia", inference.ErrMalformedOutput)
	}
	if _, ok := f["logits_value"]; !ok {
		return inference.Output{}, fmt.Errorf("%w: response has no logits_value", inference.ErrMalformedOutput)
	}
	logits := make([]float32, len(list.GetValues()))
	for i, v := range list.GetValues() {
		logits[i] = float32(v.GetNumberValue())
	}
	return inference.Output{
		PolicyLogits: logits,
		ValueLogit:   float32(f["logits_value"].GetNumberValue()),
	}, nil
}
