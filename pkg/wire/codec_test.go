package wire

import "testing"

func trivialAckDescriptorSet() *AckRegisterData {
	return &AckRegisterData{
		SimID: 7,
		PropertiesSchema: Descriptor{Name: "Properties"},
		OutputSchema: Descriptor{
			Name: "Output",
			Fields: []FieldDescriptor{
				{Name: "a", Number: 1, Type: TypeInt32},
			},
		},
		PredictionSchema: Descriptor{
			Name: "Prediction",
			Fields: []FieldDescriptor{
				{Name: "b", Number: 1, Type: TypeFloat32},
			},
		},
	}
}

func TestServerToSimulatorRoundTrip_AckRegister(t *testing.T) {
	original := &ServerToSimulator{
		Type:            ServerAckRegister,
		AckRegisterData: trivialAckDescriptorSet(),
	}

	data := EncodeServerToSimulator(original)
	decoded, err := DecodeServerToSimulator(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != ServerAckRegister {
		t.Fatalf("type = %v, want ServerAckRegister", decoded.Type)
	}
	if decoded.AckRegisterData.SimID != 7 {
		t.Fatalf("sim_id = %d, want 7", decoded.AckRegisterData.SimID)
	}
	if len(decoded.AckRegisterData.OutputSchema.Fields) != 1 {
		t.Fatalf("output schema fields = %d, want 1", len(decoded.AckRegisterData.OutputSchema.Fields))
	}
	if decoded.AckRegisterData.PredictionSchema.Fields[0].Type != TypeFloat32 {
		t.Fatalf("prediction field type = %v, want TypeFloat32", decoded.AckRegisterData.PredictionSchema.Fields[0].Type)
	}
}

func TestServerToSimulatorRoundTrip_Prediction(t *testing.T) {
	original := &ServerToSimulator{
		Type: ServerPrediction,
		PredictionData: []PredictionEntry{
			{DynamicPrediction: []byte{1, 2, 3}},
			{DynamicPrediction: []byte{4, 5}},
		},
	}

	decoded, err := DecodeServerToSimulator(EncodeServerToSimulator(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.PredictionData) != 2 {
		t.Fatalf("prediction_data len = %d, want 2", len(decoded.PredictionData))
	}
	if string(decoded.PredictionData[1].DynamicPrediction) != "\x04\x05" {
		t.Fatalf("unexpected second prediction payload: %v", decoded.PredictionData[1].DynamicPrediction)
	}
}

func TestServerToSimulatorRoundTrip_NoPayload(t *testing.T) {
	for _, typ := range []ServerMessageType{ServerStart, ServerStop, ServerReset, ServerFinished} {
		decoded, err := DecodeServerToSimulator(EncodeServerToSimulator(&ServerToSimulator{Type: typ}))
		if err != nil {
			t.Fatalf("decode %v: %v", typ, err)
		}
		if decoded.Type != typ {
			t.Fatalf("type = %v, want %v", decoded.Type, typ)
		}
	}
}

func TestSimulatorToServerRoundTrip_Register(t *testing.T) {
	original := &SimulatorToServer{Type: SimulatorRegister, SimulatorName: "cartpole"}
	decoded, err := DecodeSimulatorToServer(EncodeSimulatorToServer(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SimulatorName != "cartpole" {
		t.Fatalf("simulator_name = %q, want cartpole", decoded.SimulatorName)
	}
}

func TestSimulatorToServerRoundTrip_State(t *testing.T) {
	original := &SimulatorToServer{
		Type:      SimulatorState,
		SessionID: 7,
		StateData: []StateDataEntry{
			{State: []byte{1}, Reward: 1.5, Terminal: false, ActionTaken: nil},
			{State: []byte{2}, Reward: -0.5, Terminal: true, ActionTaken: []byte{9, 9}},
		},
	}

	decoded, err := DecodeSimulatorToServer(EncodeSimulatorToServer(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.StateData) != 2 {
		t.Fatalf("state_data len = %d, want 2", len(decoded.StateData))
	}
	if decoded.StateData[0].ActionTaken != nil {
		t.Fatalf("expected first entry to have no action_taken, got %v", decoded.StateData[0].ActionTaken)
	}
	if decoded.StateData[1].Reward != -0.5 || !decoded.StateData[1].Terminal {
		t.Fatalf("second entry mismatch: %+v", decoded.StateData[1])
	}
	if string(decoded.StateData[1].ActionTaken) != "\x09\x09" {
		t.Fatalf("action_taken mismatch: %v", decoded.StateData[1].ActionTaken)
	}
}

func TestSimulatorToServerRoundTrip_Ready(t *testing.T) {
	decoded, err := DecodeSimulatorToServer(EncodeSimulatorToServer(&SimulatorToServer{Type: SimulatorReady, SessionID: 42}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SessionID != 42 {
		t.Fatalf("session_id = %d, want 42", decoded.SessionID)
	}
}
