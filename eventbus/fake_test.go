package eventbus

import (
	"sync"

	"github.com/nats-io/nats.go"
)

type published struct {
	subject string
	data    []byte
	opts    int
}

// fakeJetStream delivers every publish straight to the queue subscriber of
// the same subject.
type fakeJetStream struct {
	mu         sync.Mutex
	streams    map[string]*nats.StreamInfo
	published  []published
	handlers   map[string]nats.MsgHandler
	queues     map[string]string
	publishErr error
}

func newFakeJetStream() *fakeJetStream {
	return &fakeJetStream{
		streams:  make(map[string]*nats.StreamInfo),
		handlers: make(map[string]nats.MsgHandler),
		queues:   make(map[string]string),
	}
}

func (f *fakeJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	msg := nats.NewMsg(subj)
	msg.Data = data
	f.mu.Lock()
	f.published = append(f.published, published{subject: subj, data: data, opts: len(opts)})
	cb := f.handlers[subj]
	seq := uint64(len(f.published))
	f.mu.Unlock()
	if cb != nil {
		cb(msg)
	}
	return &nats.PubAck{Stream: "TEST", Sequence: seq}, nil
}

func (f *fakeJetStream) QueueSubscribe(subj, queue string, cb nats.MsgHandler, opts ...nats.SubOpt) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[subj] = cb
	f.queues[subj] = queue
	return &fakeSubscription{}, nil
}

func (f *fakeJetStream) StreamInfo(stream string) (*nats.StreamInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if info, ok := f.streams[stream]; ok {
		return info, nil
	}
	return nil, nats.ErrStreamNotFound
}

func (f *fakeJetStream) AddStream(cfg *nats.StreamConfig) (*nats.StreamInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info := &nats.StreamInfo{Config: *cfg}
	f.streams[cfg.Name] = info
	return info, nil
}

func (f *fakeJetStream) deliver(subj string, data []byte) {
	f.mu.Lock()
	cb := f.handlers[subj]
	f.mu.Unlock()
	msg := nats.NewMsg(subj)
	msg.Data = data
	cb(msg)
}

type fakeSubscription struct {
	drained bool
}

func (s *fakeSubscription) Unsubscribe() error { return nil }

func (s *fakeSubscription) Drain() error {
	s.drained = true
	return nil
}
