package simulator

import (
	"github.com/brainlink/simlink/pkg/schema"
	"github.com/brainlink/simlink/pkg/state"
	"github.com/brainlink/simlink/pkg/wire"
)

// Adapter is the "glue" that connects a Simulator to the wire protocol: it
// owns the session id and the currently bound schemas, and translates
// callback results into wire.SimulatorToServer fills and wire payloads
// into callback invocations. It is the Go counterpart of C4.
type Adapter struct {
	simulatorName string
	sim           Simulator
	binder        *schema.Binder

	sessionID uint64

	propertiesSchema *schema.Schema
	stateSchema      *schema.Schema
	predictionSchema *schema.Schema

	currentRewardName string
	rewards           map[string]func() float64

	lastAction   map[string]any
	lastTerminal bool
}

// NewAdapter constructs an Adapter for sim, identified to the backend as
// simulatorName. binder is normally shared process-wide, so descriptors with
// the same shape bind to the same Schema across concurrent sessions.
func NewAdapter(simulatorName string, sim Simulator, binder *schema.Binder) *Adapter {
	return &Adapter{
		simulatorName: simulatorName,
		sim:           sim,
		binder:        binder,
		rewards:       make(map[string]func() float64),
	}
}

// RegisterReward attaches a named reward accessor. The backend selects one
// of these by name via SET_PROPERTIES' reward_name field; an explicit map
// keeps reward dispatch a plain function call instead of reflective
// attribute lookup on the simulator.
func (a *Adapter) RegisterReward(name string, fn func() float64) {
	a.rewards[name] = fn
}

// GetLastAction returns the last action delivered to NotifyPrediction, so
// a caller composing a state message can report which action produced it.
func (a *Adapter) GetLastAction() map[string]any {
	return a.lastAction
}

// GenerateRegisterMessage builds the REGISTER message that begins every
// session.
func (a *Adapter) GenerateRegisterMessage() *wire.SimulatorToServer {
	return &wire.SimulatorToServer{
		Type:          wire.SimulatorRegister,
		SimulatorName: a.simulatorName,
	}
}

// HandleRegisterAcknowledgement binds the properties/state/prediction
// schemas carried by ack and records the server-allocated session id.
func (a *Adapter) HandleRegisterAcknowledgement(ack *wire.AckRegisterData) error {
	propSchema, err := a.binder.Bind(&ack.PropertiesSchema)
	if err != nil {
		return err
	}
	outSchema, err := a.binder.Bind(&ack.OutputSchema)
	if err != nil {
		return err
	}
	predSchema, err := a.binder.Bind(&ack.PredictionSchema)
	if err != nil {
		return err
	}

	a.propertiesSchema = propSchema
	a.stateSchema = outSchema
	a.predictionSchema = predSchema
	a.sessionID = ack.SimID
	return nil
}

// HandleSetPropertiesMessage decodes the dynamic properties payload,
// forwards it to the simulator, records the reward name for this concept,
// and unconditionally re-binds the prediction schema, since a concept
// switch may change the prediction shape.
func (a *Adapter) HandleSetPropertiesMessage(data *wire.SetPropertiesData) error {
	properties, err := state.Decode(a.propertiesSchema, data.DynamicProperties)
	if err != nil {
		return err
	}
	a.sim.SetProperties(properties)
	a.currentRewardName = data.RewardName

	predSchema, err := a.binder.Bind(&data.PredictionSchema)
	if err != nil {
		return err
	}
	a.predictionSchema = predSchema
	return nil
}

// GenerateStateMessage reads the simulator's current state, serializes it
// (and the last action, if any) via the bound schemas, and appends a single
// state_data entry. reward is 0 unless a reward name is currently bound.
func (a *Adapter) GenerateStateMessage() (*wire.SimulatorToServer, error) {
	simState := a.sim.GetState()
	a.lastTerminal = simState.IsTerminal

	reward := 0.0
	if a.currentRewardName != "" {
		if fn, ok := a.rewards[a.currentRewardName]; ok {
			reward = fn()
		}
	}

	stateBytes, err := state.Project(a.stateSchema, simState.State)
	if err != nil {
		return nil, err
	}

	var actionBytes []byte
	if a.lastAction != nil {
		actionBytes, err = state.Project(a.predictionSchema, a.lastAction)
		if err != nil {
			return nil, err
		}
	}

	return &wire.SimulatorToServer{
		Type:      wire.SimulatorState,
		SessionID: a.sessionID,
		StateData: []wire.StateDataEntry{
			{State: stateBytes, Reward: reward, Terminal: simState.IsTerminal, ActionTaken: actionBytes},
		},
	}, nil
}

// HandlePredictionMessage decodes a single prediction_data entry, records
// it as the last action (re-read by GenerateStateMessage and Advance), and
// forwards it to the simulator's NotifyPrediction callback.
func (a *Adapter) HandlePredictionMessage(entry wire.PredictionEntry) error {
	prediction, err := state.Decode(a.predictionSchema, entry.DynamicPrediction)
	if err != nil {
		return err
	}
	a.lastAction = prediction
	a.sim.NotifyPrediction(prediction)
	return nil
}

// Advance delivers the last action (see GetLastAction) to the simulator's
// Advance callback. If the most recently observed state was terminal, the
// simulator is reset before the action is delivered — the backend relies on
// the client to re-initialize the episode.
func (a *Adapter) Advance() {
	if a.lastTerminal {
		a.sim.Reset()
		a.lastTerminal = false
	}
	a.sim.Advance(a.lastAction)
}

// GenerateReadyMessage builds a READY reply, which carries no sub-payloads.
func (a *Adapter) GenerateReadyMessage() *wire.SimulatorToServer {
	return &wire.SimulatorToServer{Type: wire.SimulatorReady, SessionID: a.sessionID}
}

// HandleStartMessage forwards to the simulator's Start callback.
func (a *Adapter) HandleStartMessage() {
	a.sim.Start()
}

// HandleStopMessage forwards to the simulator's Stop callback.
func (a *Adapter) HandleStopMessage() {
	a.sim.Stop()
}

// HandleResetMessage forwards to the simulator's Reset callback and clears
// any terminal latch, since the episode is being explicitly restarted.
func (a *Adapter) HandleResetMessage() {
	a.sim.Reset()
	a.lastTerminal = false
}

// HandleFinishMessage is a no-op hook kept for symmetry with the other
// handlers; nothing in the simulator contract needs to observe FINISHED.
func (a *Adapter) HandleFinishMessage() {}
