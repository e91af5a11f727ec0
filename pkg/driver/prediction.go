package driver

import (
	"github.com/brainlink/simlink/pkg/simulator"
	"github.com/brainlink/simlink/pkg/wire"
)

// PredictionDriver drives a simulator.Adapter through a prediction session.
// It differs from TrainingDriver only at registration-ack (it sends an
// initial STATE rather than READY) and has no START/STOP/RESET/FINISHED
// handling — only PREDICTION -> STATE.
type PredictionDriver struct {
	state      State
	adapter    *simulator.Adapter
	stateFuncs map[State]stateFunc
}

// NewPredictionDriver constructs a PredictionDriver in the Unregistered state.
func NewPredictionDriver(adapter *simulator.Adapter) *PredictionDriver {
	d := &PredictionDriver{state: Unregistered, adapter: adapter}
	d.stateFuncs = map[State]stateFunc{
		Unregistered: d.sendRegister,
		Registering:  d.handleRegistrationAck,
		Active:       d.handlePrediction,
		Finished:     d.doNothing,
	}
	return d
}

// State returns the driver's current state.
func (d *PredictionDriver) State() State { return d.state }

// Next is the driving function; see TrainingDriver.Next.
func (d *PredictionDriver) Next(incoming *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	return d.stateFuncs[d.state](incoming)
}

func (d *PredictionDriver) doNothing(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	return nil, nil
}

func (d *PredictionDriver) sendRegister(*wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	d.state = Registering
	return d.adapter.GenerateRegisterMessage(), nil
}

func (d *PredictionDriver) handleRegistrationAck(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
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

	// Difference from training: send an initial STATE, not READY.
	return d.adapter.GenerateStateMessage()
}

func (d *PredictionDriver) handlePrediction(msg *wire.ServerToSimulator) (*wire.SimulatorToServer, error) {
	if msg != nil && msg.Type != wire.ServerPrediction {
		return nil, &UnexpectedMessageError{State: d.state, Got: msg.Type.String(), Allowed: []string{wire.ServerPrediction.String()}}
	}
	return dispatchPredictionBatch(d.adapter, msg)
}
