package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brainlink/simlink/pkg/driver"
	"github.com/brainlink/simlink/pkg/metrics"
	"github.com/brainlink/simlink/pkg/recorder"
	"github.com/brainlink/simlink/pkg/tracing"
	"github.com/brainlink/simlink/pkg/wire"
)

// WriteTimeout bounds every individual WriteMessage call. There is
// deliberately no read timeout: the backend controls the pace of the
// session, and a client-imposed idle timeout would tear down sessions that
// are simply waiting on a slow training step.
const WriteTimeout = 30 * time.Second

// Loop pumps one session on a single goroutine: recv -> decode ->
// driver.Next -> encode -> send, over length-delimited
// ServerToSimulator/SimulatorToServer messages.
type Loop struct {
	conn    *websocket.Conn
	drv     driver.Driver
	rec     *recorder.Recorder
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  *tracing.Tracer
}

// New constructs a Loop over an already-dialed connection. m and tracer may
// be nil, in which case the pump runs unmetered and/or untraced.
func New(conn *websocket.Conn, drv driver.Driver, rec *recorder.Recorder, logger *slog.Logger, m *metrics.Metrics, tracer *tracing.Tracer) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{conn: conn, drv: drv, rec: rec, logger: logger, metrics: m, tracer: tracer}
}

// Run drives the session until the driver reaches Finished, the connection
// closes, or a fatal error surfaces. It always closes the connection and
// the recorder before returning, on every exit path.
func (l *Loop) Run(ctx context.Context) error {
	defer l.conn.Close()
	defer func() {
		l.rec.Close()
		l.rec.Wait()
	}()

	if l.metrics != nil {
		l.metrics.SessionsActive.Inc()
		defer l.metrics.SessionsActive.Dec()
	}

	out, err := l.driverNext(ctx, nil)
	if err != nil {
		l.reportDriverError(err)
		return err
	}
	l.rec.RecordRecvNone()
	if err := l.send(out); err != nil {
		l.logger.Error("session closed", "error", err)
		return err
	}
	l.reportTransition()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("session closed", "reason", "interrupt")
			return nil
		default:
		}

		incoming, err := l.recv()
		if err != nil {
			if isCleanClose(err) {
				l.logger.Info("session closed", "reason", "remote closed connection")
				return nil
			}
			terr := &TransportError{Op: "recv", Err: err}
			l.logger.Error("session closed", "error", terr)
			return terr
		}

		out, err := l.driverNext(ctx, incoming)
		if err != nil {
			l.reportDriverError(err)
			return err
		}
		l.reportTransition()

		if err := l.send(out); err != nil {
			l.logger.Error("session closed", "error", err)
			return err
		}

		if l.drv.State() == driver.Finished {
			l.logger.Info("session closed", "reason", "driver finished")
			return nil
		}
	}
}

// driverNext calls the driver, wrapping the call in a tracing span when a
// tracer is configured. The span records the state the driver was in before
// the call, since State() changes once Next returns.
func (l *Loop) driverNext(ctx context.Context, in *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if l.tracer == nil {
		return l.drv.Next(in)
	}

	var out *wire.SimulatorToServer
	err := l.tracer.DriverNext(ctx, l.drv.State().String(), func(context.Context) error {
		var nextErr error
		out, nextErr = l.drv.Next(in)
		return nextErr
	})
	return out, err
}

func (l *Loop) reportTransition() {
	if l.metrics != nil {
		l.metrics.DriverTransitions.WithLabelValues(l.drv.State().String()).Inc()
	}
}

func (l *Loop) reportDriverError(err error) {
	l.logger.Error("session closed", "error", err)
	if l.metrics != nil {
		l.metrics.DriverErrors.WithLabelValues(errorKind(err)).Inc()
	}
}

func (l *Loop) recv() (*wire.ServerToSimulator, error) {
	_, raw, err := l.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	msg, err := wire.DecodeServerToSimulator(raw)
	if err != nil {
		l.rec.RecordRecv(wire.DescribeServerToSimulator(nil))
		return nil, &TransportError{Op: "decode", Err: err}
	}
	l.rec.RecordRecv(wire.DescribeServerToSimulator(msg))
	if l.metrics != nil {
		l.metrics.MessagesReceived.WithLabelValues(msg.Type.String()).Inc()
		l.metrics.RecorderQueueDepth.Set(float64(l.rec.QueueDepth()))
	}
	return msg, nil
}

func (l *Loop) send(msg *wire.SimulatorToServer) error {
	if msg == nil {
		l.rec.RecordSendNone()
		return nil
	}

	raw := wire.EncodeSimulatorToServer(msg)

	l.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := l.conn.WriteMessage(websocket.BinaryMessage, raw); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	l.rec.RecordSend(wire.DescribeSimulatorToServer(msg))
	if l.metrics != nil {
		l.metrics.MessagesSent.WithLabelValues(msg.Type.String()).Inc()
		l.metrics.RecorderQueueDepth.Set(float64(l.rec.QueueDepth()))
	}
	return nil
}

func isCleanClose(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.CloseNormalClosure
	}
	return false
}

// errorKind labels driver errors for the driver_errors_total metric without
// leaking free-text messages into a label value.
func errorKind(err error) string {
	switch err.(type) {
	case *driver.EmptyMessageError:
		return "empty_message"
	case *driver.MalformedMessageError:
		return "malformed_message"
	case *driver.UnexpectedMessageError:
		return "unexpected_message"
	default:
		return fmt.Sprintf("%T", err)
	}
}
