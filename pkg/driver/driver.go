package driver

import (
	"github.com/brainlink/simlink/pkg/simulator"
	"github.com/brainlink/simlink/pkg/wire"
)

// Driver is the common shape both training and prediction drivers expose:
// Next is pure with respect to (State(), incoming).
type Driver interface {
	Next(incoming *wire.ServerToSimulator) (*wire.SimulatorToServer, error)
	State() State
}

type stateFunc func(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error)
type activeFunc func(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error)

// TrainingDriver drives a simulator.Adapter through a training session.
// The state/message-type -> handler mapping is built once, as data, so the
// two variants stay structurally parallel (see package prediction.go).
type TrainingDriver struct {
	state      State
	adapter    *simulator.Adapter
	stateFuncs map[State]stateFunc
	activeFuncs map[wire.ServerMessageType]activeFunc
}

// NewTrainingDriver constructs a TrainingDriver in the Unregistered state.
func NewTrainingDriver(adapter *simulator.Adapter) *TrainingDriver {
	d := &TrainingDriver{state: Unregistered, adapter: adapter}
	d.stateFuncs = map[State]stateFunc{
		Unregistered: d.sendRegister,
		Registering:  d.handleRegistrationAck,
		Active:       d.handleRuntimeMessage,
		Finished:     d.doNothing,
	}
	d.activeFuncs = map[wire.ServerMessageType]activeFunc{
		wire.ServerSetProperties: d.handleSetProperties,
		wire.ServerStart:         d.handleStart,
		wire.ServerStop:          d.handleStop,
		wire.ServerPrediction:    d.handlePrediction,
		wire.ServerReset:         d.handleReset,
		wire.ServerFinished:      d.handleFinished,
	}
	return d
}

// State returns the driver's current state.
func (d *TrainingDriver) State() State { return d.state }

// Next is the driving function: given an incoming message (nil on the very
// first tick), it dispatches on the current state and returns the reply to
// send, or nil if nothing should be sent.
func (d *TrainingDriver) Next(incoming *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	return d.stateFuncs[d.state](incoming)
}

func (d *TrainingDriver) doNothing(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	return nil, nil
}

func (d *TrainingDriver) sendRegister(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.state = Registering
	return d.adapter.GenerateRegisterMessage(), nil
}

func (d *TrainingDriver) handleRegistrationAck(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if msg == nil {
		return nil, &EmptyMessageError{Expected: "ACKNOWLEDGE_REGISTER"}
	}
	if msg.AckRegisterData == nil {
		return nil, &MalformedMessageError{Field: "acknowledge_register_data", Message: "ServerToSimulator"}
	}
	if err := d.adapter.HandleRegisterAcknowledgement(msg.AckRegisterData); err != nil {
		return nil, err
	}
	d.state = Active
	return d.adapter.GenerateReadyMessage(), nil
}

func (d *TrainingDriver) handleRuntimeMessage(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if msg == nil {
		return nil, &EmptyMessageError{Expected: "ServerToSimulator"}
	}
	fn, ok := d.activeFuncs[msg.Type]
	if !ok {
		return nil, &UnexpectedMessageError{State: d.state, Got: msg.Type.String(), Allowed: activeTypeNames(d.activeFuncs)}
	}
	return fn(msg)
}

func (d *TrainingDriver) handleSetProperties(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if msg.SetPropertiesData == nil {
		return nil, &MalformedMessageError{Field: "set_properties_data", Message: "ServerToSimulator"}
	}
	if err := d.adapter.HandleSetPropertiesMessage(msg.SetPropertiesData); err != nil {
		return nil, err
	}
	return d.adapter.GenerateReadyMessage(), nil
}

func (d *TrainingDriver) handleStart(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.adapter.HandleStartMessage()
	reply, err := d.adapter.GenerateStateMessage()
	if err != nil {
		return nil, err
	}
	if len(reply.StateData) == 0 {
		return nil, &MalformedMessageError{Field: "state_data", Message: "SimulatorToServer"}
	}
	return reply, nil
}

func (d *TrainingDriver) handleStop(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.adapter.HandleStopMessage()
	return d.adapter.GenerateReadyMessage(), nil
}

func (d *TrainingDriver) handlePrediction(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	return dispatchPredictionBatch(d.adapter, msg)
}

func (d *TrainingDriver) handleReset(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.adapter.HandleResetMessage()
	return d.adapter.GenerateReadyMessage(), nil
}

func (d *TrainingDriver) handleFinished(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.adapter.HandleFinishMessage()
	d.state = Finished
	return nil, nil
}

// dispatchPredictionBatch handles a PREDICTION message's (possibly
// multi-entry) prediction_data sequence, accumulating every entry's
// resulting state_data into a single outgoing STATE reply: one incoming
// message must produce exactly one top-level reply, never several.
func dispatchPredictionBatch(adapter *simulator.Adapter, msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if msg == nil {
		return nil, &EmptyMessageError{Expected: "ServerToSimulator with PredictionData"}
	}
	if len(msg.PredictionData) == 0 {
		return nil, &MalformedMessageError{Field: "prediction_data", Message: "ServerToSimulator"}
	}

	var accumulated []wire.StateDataEntry
	var sessionID uint64
	for _, entry := range msg.PredictionData {
		if err := adapter.HandlePredictionMessage(entry); err != nil {
			return nil, err
		}
		adapter.Advance()

		stateMsg, err := adapter.GenerateStateMessage()
		if err != nil {
			return nil, err
		}
		sessionID = stateMsg.SessionID
		accumulated = append(accumulated, stateMsg.StateData...)
	}

	return &wire.SimulatorToServer{
		Type:      wire.SimulatorState,
		SessionID: sessionID,
		StateData: accumulated,
	}, nil
}

func activeTypeNames(m map[wire.ServerMessageType]activeFunc) []string {
	names := make([]string, 0, len(m))
	for t := range m {
		names = append(names, t.String())
	}
	return names
}
