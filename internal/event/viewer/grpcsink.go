package viewer

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/evcam/ekalibr-go/internal/event"
)

// StageKind names one of the extraction pipeline's visualization stages, so
// a debug consumer can subscribe to just the stage it cares about instead
// of a single collapsed "frame" callback (original source's
// cluster-forming / category-identification / search-matches /
// extract-circles / extract-circles-grid sequence).
type StageKind string

const (
	StageClusterForming         StageKind = "cluster-forming"
	StageCategoryIdentification StageKind = "category-identification"
	StageSearchMatches          StageKind = "search-matches"
	StageExtractCircles         StageKind = "extract-circles"
	StageExtractCirclesGrid     StageKind = "extract-circles-grid"
)

// ringSize bounds how many recent frames a late-subscribing client can
// catch up on.
const ringSize = 32

// GRPCSink streams overlay frames to a remote viewer. Grounded on the
// teacher's internal/lidar/visualiser Publisher (broadcast loop fanning a
// channel of frames out to subscribed streams), but with the RPC surface
// hand-declared as a grpc.ServiceDesc rather than generated from a .proto,
// since no .proto/*_grpc.pb.go pair backs this package: the wire messages
// are google.golang.org/protobuf/types/known/structpb.Struct values built
// directly from overlay data via structpb.NewStruct.
type GRPCSink struct {
	server   *grpc.Server
	listener net.Listener

	mu      sync.Mutex
	clients map[string]chan *structpb.Struct
	ring    []*structpb.Struct

	frameCount atomic.Uint64
}

// NewGRPCSink creates a sink not yet listening on any address; call Serve
// to start accepting client streams.
func NewGRPCSink() *GRPCSink {
	return &GRPCSink{clients: make(map[string]chan *structpb.Struct)}
}

// Serve starts accepting StreamFrames clients on addr. It blocks until the
// server stops; run it in its own goroutine.
func (s *GRPCSink) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = lis
	s.server = grpc.NewServer()
	s.server.RegisterService(&serviceDesc, s)
	log.Printf("viewer gRPC sink listening on %s", addr)
	return s.server.Serve(lis)
}

// Stop gracefully stops the server.
func (s *GRPCSink) Stop() {
	if s.server != nil {
		s.server.GracefulStop()
	}
}

// serviceDesc is the hand-declared equivalent of a protoc-generated
// *_grpc.pb.go ServiceDesc: one server-streaming RPC, StreamFrames, whose
// request and response types are both structpb.Struct.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: "ekalibr.viewer.FrameStream",
	HandlerType: (*frameStreamServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamFrames",
			Handler:       streamFramesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "ekalibr/viewer/framestream.proto",
}

// frameStreamServer is the HandlerType grpc.ServiceDesc type-asserts
// incoming calls against; GRPCSink implements it by virtue of
// streamFrames below.
type frameStreamServer interface {
	streamFrames(req *structpb.Struct, stream grpc.ServerStream) error
}

func streamFramesHandler(srv interface{}, stream grpc.ServerStream) error {
	var req structpb.Struct
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}
	return srv.(frameStreamServer).streamFrames(&req, stream)
}

// streamFrames registers the caller as a client, replays the ring buffer,
// then forwards every subsequently published frame until the stream's
// context is done.
func (s *GRPCSink) streamFrames(_ *structpb.Struct, stream grpc.ServerStream) error {
	id, ch := s.subscribe()
	defer s.unsubscribe(id)

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case frame, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.SendMsg(frame); err != nil {
				return err
			}
		}
	}
}

func (s *GRPCSink) subscribe() (string, chan *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("client-%d", s.frameCount.Load())
	ch := make(chan *structpb.Struct, ringSize)
	for _, frame := range s.ring {
		ch <- frame
	}
	s.clients[id] = ch
	return id, ch
}

func (s *GRPCSink) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[id]; ok {
		close(ch)
		delete(s.clients, id)
	}
}

// publish fans frame out to every connected client and appends it to the
// replay ring, dropping it for any client whose channel is full rather than
// blocking the caller.
func (s *GRPCSink) publish(stage StageKind, fields map[string]interface{}) {
	payload := map[string]interface{}{"stage": string(stage)}
	for k, v := range fields {
		payload[k] = v
	}
	frame, err := structpb.NewStruct(payload)
	if err != nil {
		log.Printf("viewer: dropping frame for stage %s: %v", stage, err)
		return
	}
	s.frameCount.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = append(s.ring, frame)
	if len(s.ring) > ringSize {
		s.ring = s.ring[len(s.ring)-ringSize:]
	}
	for _, ch := range s.clients {
		select {
		case ch <- frame:
		default:
			log.Printf("viewer: client channel full, dropping stage %s frame", stage)
		}
	}
}

func vec2Fields(prefix string, v event.Vec2) map[string]interface{} {
	return map[string]interface{}{prefix + "_x": v.X, prefix + "_y": v.Y}
}

// FrameStart implements Sink, publishing the cluster-forming stage's frame
// header. The decay surface itself isn't serialized to structpb (it's a
// dense image, not a handful of scalars), so it is dropped here.
func (s *GRPCSink) FrameStart(tCur float64, _ event.Image[uint8]) {
	s.publish(StageClusterForming, map[string]interface{}{"t_cur": tCur})
}

// ClusterFormed implements Sink.
func (s *GRPCSink) ClusterFormed(id int, kind ClusterKind, polarity bool, center, dir event.Vec2) {
	fields := map[string]interface{}{
		"id": float64(id), "kind": string(kind), "polarity": polarity,
	}
	for k, v := range vec2Fields("center", center) {
		fields[k] = v
	}
	for k, v := range vec2Fields("dir", dir) {
		fields[k] = v
	}
	s.publish(StageCategoryIdentification, fields)
}

// PairMatched implements Sink.
func (s *GRPCSink) PairMatched(aID, bID int, score float64) {
	s.publish(StageSearchMatches, map[string]interface{}{
		"a_id": float64(aID), "b_id": float64(bID), "score": score,
	})
}

// CircleAccepted implements Sink.
func (s *GRPCSink) CircleAccepted(center event.Vec2, radius float64, startT, endT float64) {
	fields := map[string]interface{}{"radius": radius, "start_t": startT, "end_t": endT}
	for k, v := range vec2Fields("center", center) {
		fields[k] = v
	}
	s.publish(StageExtractCircles, fields)
}

// GridFound implements Sink.
func (s *GRPCSink) GridFound(centers []event.Vec2, rows, cols int) {
	flat := make([]interface{}, 0, 2*len(centers))
	for _, c := range centers {
		flat = append(flat, c.X, c.Y)
	}
	s.publish(StageExtractCirclesGrid, map[string]interface{}{
		"rows": float64(rows), "cols": float64(cols), "centers": flat,
	})
}

var _ Sink = (*GRPCSink)(nil)
