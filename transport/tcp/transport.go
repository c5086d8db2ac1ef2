// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package tcp implements a transport that carries every message over its own
// short lived TCP connection.
//
// The sender dials the node named in the destination address, writes the
// 2-byte big-endian port it listens on followed by the filtered envelope,
// shuts down its write half and waits for the receiver to acknowledge with a
// single byte and close. The receiver reads until EOF, rebuilds the source
// address from the remote IP and the advertised port, delivers the message
// to its endpoint, then writes the acknowledgement and closes.
//
// All connection state is owned by Step. Socket operations run on short
// lived goroutines, one operation per connection at a time, and report back
// through an event list drained by the next Step. Any failure on a
// connection closes it silently; delivery is best effort.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/actornet/address"
	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/internal/staging"
	"github.com/tochemey/actornet/internal/timeout"
	"github.com/tochemey/actornet/internal/wire"
	"github.com/tochemey/actornet/message"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/transport"
)

const (
	blockSize     = 16 * 1024
	acceptBackoff = 10 * time.Millisecond
)

var errIdle = errors.New("idle timeout")

// Transport is the TCP transport.
type Transport struct {
	config   *Config
	endpoint transport.Endpoint
	metric   *actormetric.TransportMetric

	listener *net.TCPListener
	self     address.Address
	port     uint16

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
	stopped atomic.Bool

	mu       sync.Mutex
	commands []message.Message
	events   []event
	wake     chan struct{}

	// guarded by stepMu
	stepMu   sync.Mutex
	conns    map[uint64]*channelInfo
	nextID   uint64
	timeouts *timeout.Manager[uint64]
}

var (
	_ transport.Sender  = (*Transport)(nil)
	_ transport.Stepper = (*Transport)(nil)
)

// New creates a Transport delivering received messages to endpoint.
// Call Start to bind the listener.
func New(config *Config, endpoint transport.Endpoint) (*Transport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	transportMetric, err := actormetric.NewTransportMetric(config.Meter())
	if err != nil {
		return nil, err
	}

	return &Transport{
		config:   config,
		endpoint: endpoint,
		metric:   transportMetric,
		wake:     make(chan struct{}, 1),
		conns:    make(map[uint64]*channelInfo),
		timeouts: timeout.NewManager[uint64](),
	}, nil
}

// Start binds the listener and starts accepting connections. On failure
// every acquired resource is released and Start may be called again.
func (t *Transport) Start(ctx context.Context) error {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()

	if t.stopped.Load() {
		return actorerrors.ErrClosed
	}

	if t.started.Load() {
		return actorerrors.ErrAlreadyStarted
	}

	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(ctx, "tcp", t.config.ListenAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", t.config.ListenAddress(), err)
	}

	tcpListener := listener.(*net.TCPListener)
	tcpAddr := tcpListener.Addr().(*net.TCPAddr)

	host, err := bindIP(tcpAddr.IP)
	if err != nil {
		return errors.Join(err, listener.Close())
	}

	t.listener = tcpListener
	t.port = uint16(tcpAddr.Port)
	t.self = NodeAddress(t.config.Prefix(), host, tcpAddr.Port)
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.started.Store(true)

	t.wg.Add(1)
	go t.acceptLoop()

	t.config.Logger().Infof("tcp: listening on %s as %s", tcpAddr, t.self)
	return nil
}

// Self returns the address of this node. It is only valid after Start.
func (t *Transport) Self() address.Address {
	return t.self
}

// Port returns the bound port. It is only valid after Start.
func (t *Transport) Port() int {
	return int(t.port)
}

// Send queues msg for delivery. The destination must be a TCP address and
// the source must lie under Self. Messages that cannot be encoded or
// delivered are dropped during Step.
func (t *Transport) Send(msg message.Message) error {
	if !t.started.Load() {
		return actorerrors.ErrNotStarted
	}

	if t.stopped.Load() {
		return actorerrors.ErrClosed
	}

	t.mu.Lock()
	t.commands = append(t.commands, msg)
	t.mu.Unlock()

	transport.Notify(t.wake)
	return nil
}

// Wake implements transport.Stepper.
func (t *Transport) Wake() <-chan struct{} {
	return t.wake
}

// Step opens a connection per queued message, closes the connections that
// stayed idle past their deadline and handles the completed socket
// operations. It returns the wait until the next idle deadline, zero when
// work is already pending, or transport.NoDeadline.
func (t *Transport) Step(now time.Time) (time.Duration, error) {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()

	if t.stopped.Load() {
		return 0, actorerrors.ErrClosed
	}

	if !t.started.Load() {
		return 0, actorerrors.ErrNotStarted
	}

	t.mu.Lock()
	commands, events := t.commands, t.events
	t.commands, t.events = nil, nil
	t.mu.Unlock()

	for _, msg := range commands {
		t.open(now, msg)
	}

	expired, _, _ := t.timeouts.Process(now)
	for _, id := range expired {
		t.kill(id, errIdle)
	}

	for _, ev := range events {
		t.dispatch(now, ev)
	}

	t.mu.Lock()
	pending := len(t.commands) + len(t.events)
	t.mu.Unlock()
	if pending > 0 {
		return 0, nil
	}

	if _, deadline, ok := t.timeouts.Next(); ok {
		return max(deadline.Sub(now), 0), nil
	}
	return transport.NoDeadline, nil
}

// Stop closes every connection, then the listener, and waits for the
// socket goroutines to return. Stop is idempotent.
func (t *Transport) Stop() error {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()

	if !t.started.Load() || !t.stopped.CompareAndSwap(false, true) {
		return nil
	}

	for id, info := range t.conns {
		t.release(id, info)
	}

	err := t.listener.Close()
	t.cancel()
	t.wg.Wait()

	t.mu.Lock()
	events := t.events
	t.commands, t.events = nil, nil
	t.mu.Unlock()

	for _, ev := range events {
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
	}

	transport.Notify(t.wake)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// ConnectionCount returns the number of open connections.
func (t *Transport) ConnectionCount() int {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()
	return len(t.conns)
}

func (t *Transport) acceptLoop() {
	defer t.wg.Done()
	for {
		conn, err := t.listener.AcceptTCP()
		if err != nil {
			if t.stopped.Load() || errors.Is(err, net.ErrClosed) {
				return
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}

			t.config.Logger().Warnf("tcp: accept failed: %v", err)
			select {
			case <-t.ctx.Done():
				return
			case <-time.After(acceptBackoff):
			}
			continue
		}

		t.post(event{kind: acceptEvent, conn: conn})
	}
}

// post hands a completed socket operation over to Step. Connections posted
// after Stop are closed right away.
func (t *Transport) post(ev event) {
	t.mu.Lock()
	if t.stopped.Load() {
		t.mu.Unlock()
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
		return
	}
	t.events = append(t.events, ev)
	t.mu.Unlock()

	transport.Notify(t.wake)
}

func (t *Transport) spawn(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

func (t *Transport) open(now time.Time, msg message.Message) {
	frame, node, err := t.encode(msg)
	if err == nil {
		buffers := staging.New(staging.WriteFirst, t.config.MaxMessageBytes())
		if err = buffers.StartWriting(frame); err == nil {
			info := t.register(now, outgoing, node, buffers)
			ctx, id := info.ctx, info.id
			t.spawn(func() { t.dial(ctx, id, node) })
			return
		}
	}

	t.metric.MessagesDropped().Add(context.Background(), 1)
	t.config.Logger().Warnf("tcp: dropping message from %s to %s: %v", msg.Source, msg.Destination, err)
}

func (t *Transport) encode(msg message.Message) ([]byte, string, error) {
	node, destination, err := splitNode(t.config.Prefix(), msg.Destination)
	if err != nil {
		return nil, "", err
	}

	source, ok := msg.Source.RemovePrefix(t.self)
	if !ok {
		return nil, "", actorerrors.NewErrInvalidAddress(fmt.Errorf("source %s is not under %s", msg.Source, t.self))
	}

	payload, err := t.config.Serializer().Serialize(msg.Payload)
	if err != nil {
		return nil, "", err
	}

	body := wire.Envelope{
		Source:      source.Elements(),
		Destination: destination.Elements(),
		Payload:     payload,
	}.Encode()

	if body, err = t.config.OutgoingFilter().Filter(msg.Destination, body); err != nil {
		return nil, "", err
	}
	return wire.Frame(t.port, body), node, nil
}

func (t *Transport) dial(ctx context.Context, id uint64, node string) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", node)
	if err != nil {
		t.post(event{kind: connectEvent, id: id, err: err})
		return
	}
	t.post(event{kind: connectEvent, id: id, conn: conn.(*net.TCPConn)})
}

func (t *Transport) register(now time.Time, kind direction, remote string, buffers *staging.Buffers) *channelInfo {
	t.nextID++
	ctx, cancel := context.WithCancel(t.ctx)
	info := &channelInfo{
		id:      t.nextID,
		kind:    kind,
		remote:  remote,
		staging: buffers,
		block:   make([]byte, blockSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	t.conns[info.id] = info
	t.touch(now, info.id)
	t.metric.ConnectionsOpened().Add(context.Background(), 1)
	return info
}

func (t *Transport) touch(now time.Time, id uint64) {
	if idle := t.config.IdleTimeout(); idle > 0 {
		t.timeouts.Reset(id, now.Add(idle))
	}
}

func (t *Transport) dispatch(now time.Time, ev event) {
	if ev.kind == acceptEvent {
		buffers := staging.New(staging.ReadFirst, t.config.MaxMessageBytes())
		if err := buffers.StartReading(); err != nil {
			_ = ev.conn.Close()
			return
		}
		info := t.register(now, incoming, ev.conn.RemoteAddr().String(), buffers)
		info.conn = ev.conn
		t.scheduleRead(info)
		return
	}

	info, ok := t.conns[ev.id]
	if !ok {
		// killed while the operation was running
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
		return
	}

	var err error
	switch ev.kind {
	case connectEvent:
		err = t.connected(now, info, ev)
	case readEvent:
		err = t.readable(now, info, ev)
	case writeEvent:
		err = t.writable(now, info, ev)
	}

	if err != nil {
		t.kill(info.id, err)
	}
}

func (t *Transport) connected(now time.Time, info *channelInfo, ev event) error {
	if ev.err != nil {
		return ev.err
	}

	info.conn = ev.conn
	t.touch(now, info.id)
	return t.scheduleWrite(info)
}

func (t *Transport) readable(now time.Time, info *channelInfo, ev event) error {
	if ev.n > 0 {
		if err := info.staging.AddReadBlock(info.block[:ev.n]); err != nil {
			return err
		}
	}

	if ev.err == nil {
		t.touch(now, info.id)
		t.scheduleRead(info)
		return nil
	}

	if !errors.Is(ev.err, io.EOF) {
		return ev.err
	}

	data, err := info.staging.FinishReading()
	if err != nil {
		return err
	}

	if info.kind == outgoing {
		// any reply followed by EOF counts as the acknowledgement
		t.metric.MessagesSent().Add(context.Background(), 1)
		t.release(info.id, info)
		return nil
	}

	if err := t.receive(info, data); err != nil {
		return err
	}

	if err := info.staging.StartWriting(wire.Ack); err != nil {
		return err
	}
	t.touch(now, info.id)
	return t.scheduleWrite(info)
}

func (t *Transport) receive(info *channelInfo, data []byte) error {
	port, body, err := wire.Unframe(data)
	if err != nil {
		return err
	}

	remote := info.conn.RemoteAddr().(*net.TCPAddr)
	from := NodeAddress(t.config.Prefix(), remote.IP.String(), int(port))

	if body, err = t.config.IncomingFilter().Filter(from, body); err != nil {
		return err
	}

	envelope, err := wire.DecodeEnvelope(body)
	if err != nil {
		return err
	}

	source, err := localAddress(envelope.Source)
	if err != nil {
		return err
	}

	destination, err := localAddress(envelope.Destination)
	if err != nil {
		return err
	}

	payload, err := t.config.Serializer().Deserialize(envelope.Payload)
	if err != nil {
		return err
	}

	msg := message.New(from.AppendAddress(source), t.self.AppendAddress(destination), payload)
	if err := t.endpoint.Deliver(msg); err != nil {
		return fmt.Errorf("failed to deliver message to %s: %w", msg.Destination, err)
	}

	info.delivered = true
	t.metric.MessagesReceived().Add(context.Background(), 1)
	return nil
}

func (t *Transport) writable(now time.Time, info *channelInfo, ev event) error {
	if err := info.staging.AdjustWritePointer(ev.n); err != nil {
		return err
	}

	if ev.err != nil {
		return ev.err
	}

	t.touch(now, info.id)
	if !info.staging.IsEndOfWrite() {
		return t.scheduleWrite(info)
	}

	if err := info.staging.FinishWriting(); err != nil {
		return err
	}

	if err := info.conn.CloseWrite(); err != nil {
		return err
	}

	if info.staging.IsDone() {
		t.release(info.id, info)
		return nil
	}

	if err := info.staging.StartReading(); err != nil {
		return err
	}
	t.scheduleRead(info)
	return nil
}

func (t *Transport) scheduleRead(info *channelInfo) {
	id, conn, block := info.id, info.conn, info.block
	t.spawn(func() {
		n, err := conn.Read(block)
		t.post(event{kind: readEvent, id: id, n: n, err: err})
	})
}

func (t *Transport) scheduleWrite(info *channelInfo) error {
	n, err := info.staging.GetWriteBlock(info.block)
	if err != nil {
		return err
	}

	id, conn, block := info.id, info.conn, info.block[:n]
	t.spawn(func() {
		written, err := conn.Write(block)
		t.post(event{kind: writeEvent, id: id, n: written, err: err})
	})
	return nil
}

// kill closes a connection on failure. The message it carried is dropped.
func (t *Transport) kill(id uint64, reason error) {
	info, ok := t.conns[id]
	if !ok {
		return
	}

	t.release(id, info)
	t.metric.ConnectionsKilled().Add(context.Background(), 1)
	if info.kind == outgoing || !info.delivered {
		t.metric.MessagesDropped().Add(context.Background(), 1)
	}
	t.config.Logger().Debugf("tcp: killed %s connection %d with %s: %v", info.kind, id, info.remote, reason)
}

// release removes a connection from the table and closes it. Close errors
// are ignored.
func (t *Transport) release(id uint64, info *channelInfo) {
	delete(t.conns, id)
	t.timeouts.Cancel(id)
	info.cancel()
	if info.conn != nil {
		_ = info.conn.Close()
	}
}
