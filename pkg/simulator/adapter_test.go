package simulator

import (
	"testing"

	"github.com/brainlink/simlink/pkg/schema"
	"github.com/brainlink/simlink/pkg/wire"
)

type fakeSimulator struct {
	started, stopped, resetCount int
	properties                   map[string]any
	notified                     map[string]any
	advanced                     []map[string]any
	nextState                    SimState
}

func (f *fakeSimulator) Start()                              { f.started++ }
func (f *fakeSimulator) Stop()                                { f.stopped++ }
func (f *fakeSimulator) Reset()                               { f.resetCount++ }
func (f *fakeSimulator) SetProperties(p map[string]any)       { f.properties = p }
func (f *fakeSimulator) GetState() SimState                   { return f.nextState }
func (f *fakeSimulator) Advance(action map[string]any)        { f.advanced = append(f.advanced, action) }
func (f *fakeSimulator) NotifyPrediction(p map[string]any)     { f.notified = p }

func trivialAck() *wire.AckRegisterData {
	return &wire.AckRegisterData{
		SimID:            7,
		PropertiesSchema: wire.Descriptor{Name: "Properties"},
		OutputSchema: wire.Descriptor{
			Name:   "Output",
			Fields: []wire.FieldDescriptor{{Name: "a", Number: 1, Type: wire.TypeInt32}},
		},
		PredictionSchema: wire.Descriptor{
			Name:   "Prediction",
			Fields: []wire.FieldDescriptor{{Name: "b", Number: 1, Type: wire.TypeFloat32}},
		},
	}
}

func TestAdapter_RegisterAndReady(t *testing.T) {
	sim := &fakeSimulator{}
	a := NewAdapter("cartpole", sim, schema.NewBinder())

	reg := a.GenerateRegisterMessage()
	if reg.Type != wire.SimulatorRegister || reg.SimulatorName != "cartpole" {
		t.Fatalf("unexpected register message: %+v", reg)
	}

	if err := a.HandleRegisterAcknowledgement(trivialAck()); err != nil {
		t.Fatalf("ack: %v", err)
	}

	ready := a.GenerateReadyMessage()
	if ready.Type != wire.SimulatorReady || ready.SessionID != 7 {
		t.Fatalf("unexpected ready message: %+v", ready)
	}
}

func TestAdapter_GenerateStateMessage_WithReward(t *testing.T) {
	sim := &fakeSimulator{nextState: SimState{State: map[string]any{"a": int32(1)}, IsTerminal: false}}
	a := NewAdapter("cartpole", sim, schema.NewBinder())
	if err := a.HandleRegisterAcknowledgement(trivialAck()); err != nil {
		t.Fatalf("ack: %v", err)
	}
	a.RegisterReward("r", func() float64 { return 3.5 })
	a.currentRewardName = "r"

	msg, err := a.GenerateStateMessage()
	if err != nil {
		t.Fatalf("generate state: %v", err)
	}
	if len(msg.StateData) != 1 {
		t.Fatalf("state_data len = %d, want 1", len(msg.StateData))
	}
	if msg.StateData[0].Reward != 3.5 {
		t.Fatalf("reward = %v, want 3.5", msg.StateData[0].Reward)
	}
	if msg.StateData[0].ActionTaken != nil {
		t.Fatalf("expected no action_taken before any prediction, got %v", msg.StateData[0].ActionTaken)
	}
}

func TestAdapter_TerminalTriggersResetBeforeAdvance(t *testing.T) {
	sim := &fakeSimulator{nextState: SimState{State: map[string]any{"a": int32(1)}, IsTerminal: true}}
	a := NewAdapter("cartpole", sim, schema.NewBinder())
	if err := a.HandleRegisterAcknowledgement(trivialAck()); err != nil {
		t.Fatalf("ack: %v", err)
	}

	if _, err := a.GenerateStateMessage(); err != nil {
		t.Fatalf("generate state: %v", err)
	}
	if !a.lastTerminal {
		t.Fatal("expected lastTerminal to be latched true")
	}

	a.lastAction = map[string]any{"b": float32(0.5)}
	a.Advance()

	if sim.resetCount != 1 {
		t.Fatalf("resetCount = %d, want 1", sim.resetCount)
	}
	if len(sim.advanced) != 1 {
		t.Fatalf("advanced calls = %d, want 1", len(sim.advanced))
	}
	if a.lastTerminal {
		t.Fatal("expected lastTerminal to clear after Advance")
	}
}

func TestAdapter_SetPropertiesRebindsPredictionSchema(t *testing.T) {
	sim := &fakeSimulator{}
	a := NewAdapter("cartpole", sim, schema.NewBinder())
	if err := a.HandleRegisterAcknowledgement(trivialAck()); err != nil {
		t.Fatalf("ack: %v", err)
	}
	originalPred := a.predictionSchema

	newPred := wire.Descriptor{
		Name:   "Prediction2",
		Fields: []wire.FieldDescriptor{{Name: "c", Number: 1, Type: wire.TypeBool}},
	}
	data := &wire.SetPropertiesData{
		DynamicProperties: encodeEmpty(),
		RewardName:        "r",
		PredictionSchema:  newPred,
	}
	if err := a.HandleSetPropertiesMessage(data); err != nil {
		t.Fatalf("set properties: %v", err)
	}
	if a.predictionSchema == originalPred {
		t.Fatal("expected prediction schema to be rebound")
	}
	if a.currentRewardName != "r" {
		t.Fatalf("currentRewardName = %q, want r", a.currentRewardName)
	}
}

func encodeEmpty() []byte {
	return []byte{}
}
