package wire

// ServerMessageType identifies the kind of message sent from the backend to
// the simulator.
type ServerMessageType uint8

const (
	ServerUnknown            ServerMessageType = 0x00
	ServerAckRegister        ServerMessageType = 0x01
	ServerSetProperties      ServerMessageType = 0x02
	ServerStart              ServerMessageType = 0x03
	ServerStop               ServerMessageType = 0x04
	ServerPrediction         ServerMessageType = 0x05
	ServerReset              ServerMessageType = 0x06
	ServerFinished           ServerMessageType = 0x07
)

// String returns the string representation of the server message type.
func (t ServerMessageType) String() string {
	switch t {
	case ServerAckRegister:
		return "ACKNOWLEDGE_REGISTER"
	case ServerSetProperties:
		return "SET_PROPERTIES"
	case ServerStart:
		return "START"
	case ServerStop:
		return "STOP"
	case ServerPrediction:
		return "PREDICTION"
	case ServerReset:
		return "RESET"
	case ServerFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// SimulatorMessageType identifies the kind of message sent from the
// simulator to the backend.
type SimulatorMessageType uint8

const (
	SimulatorUnknown    SimulatorMessageType = 0x00
	SimulatorRegister   SimulatorMessageType = 0x01
	SimulatorReady      SimulatorMessageType = 0x02
	SimulatorState      SimulatorMessageType = 0x03
)

// String returns the string representation of the simulator message type.
func (t SimulatorMessageType) String() string {
	switch t {
	case SimulatorRegister:
		return "REGISTER"
	case SimulatorReady:
		return "READY"
	case SimulatorState:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// Descriptor is a self-describing declaration of a dynamically bound
// message type, as sent by the backend at registration and set-properties.
type Descriptor struct {
	Name   string
	Fields []FieldDescriptor
}

// FieldLabel is the field cardinality. Only "optional" exists on the wire
// today, but the label is carried explicitly since it participates in the
// structural fingerprint.
type FieldLabel uint8

const (
	LabelOptional FieldLabel = 0x00
)

// PrimitiveType enumerates the field types a Descriptor can declare.
type PrimitiveType uint8

const (
	TypeInt32   PrimitiveType = 0x01
	TypeInt64   PrimitiveType = 0x02
	TypeUint32  PrimitiveType = 0x03
	TypeUint64  PrimitiveType = 0x04
	TypeFloat32 PrimitiveType = 0x05
	TypeFloat64 PrimitiveType = 0x06
	TypeBool    PrimitiveType = 0x07
	TypeString  PrimitiveType = 0x08
	TypeMessage PrimitiveType = 0x09 // referenced-type-name is set
)

// FieldDescriptor is a single field declaration within a Descriptor.
type FieldDescriptor struct {
	Name          string
	Number        uint32
	Label         FieldLabel
	Type          PrimitiveType
	ReferenceName string // only meaningful when Type == TypeMessage
}

// AckRegisterData is the payload of ACKNOWLEDGE_REGISTER.
type AckRegisterData struct {
	SimID            uint64
	PropertiesSchema Descriptor
	OutputSchema     Descriptor
	PredictionSchema Descriptor
}

// SetPropertiesData is the payload of SET_PROPERTIES.
type SetPropertiesData struct {
	DynamicProperties []byte
	RewardName        string
	PredictionSchema  Descriptor
}

// PredictionEntry is a single element of PREDICTION's prediction_data sequence.
type PredictionEntry struct {
	DynamicPrediction []byte
}

// ServerToSimulator is the top-level discriminated union sent by the backend.
type ServerToSimulator struct {
	Type              ServerMessageType
	AckRegisterData   *AckRegisterData
	SetPropertiesData *SetPropertiesData
	PredictionData    []PredictionEntry
}

// StateDataEntry is a single element of STATE's state_data sequence.
type StateDataEntry struct {
	State       []byte
	Reward      float64
	Terminal    bool
	ActionTaken []byte // absent (nil) when there is no prior action
}

// SimulatorToServer is the top-level discriminated union sent by the
// simulator back to the backend.
type SimulatorToServer struct {
	Type           SimulatorMessageType
	SessionID      uint64
	SimulatorName  string // only set on REGISTER
	StateData      []StateDataEntry
}
