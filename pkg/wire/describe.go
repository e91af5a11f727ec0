package wire

import (
	"fmt"
	"strings"
)

// DescribeServerToSimulator renders msg as the one-line textual
// representation the recorder writes to its trace file.
func DescribeServerToSimulator(msg *ServerToSimulator) string {
	if msg == nil {
		return "None"
	}
	var b strings.Builder
	b.WriteString(msg.Type.String())
	switch msg.Type {
	case ServerAckRegister:
		if msg.AckRegisterData != nil {
			fmt.Fprintf(&b, "{sim_id:%d}", msg.AckRegisterData.SimID)
		}
	case ServerSetProperties:
		if msg.SetPropertiesData != nil {
			fmt.Fprintf(&b, "{reward_name:%q}", msg.SetPropertiesData.RewardName)
		}
	case ServerPrediction:
		fmt.Fprintf(&b, "{prediction_data:%d entries}", len(msg.PredictionData))
	}
	return b.String()
}

// DescribeSimulatorToServer renders msg as the one-line textual
// representation the recorder writes to its trace file.
func DescribeSimulatorToServer(msg *SimulatorToServer) string {
	if msg == nil {
		return "None"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s{sim_id:%d", msg.Type.String(), msg.SessionID)
	switch msg.Type {
	case SimulatorRegister:
		fmt.Fprintf(&b, ", simulator_name:%q", msg.SimulatorName)
	case SimulatorState:
		fmt.Fprintf(&b, ", state_data:%d entries", len(msg.StateData))
	}
	b.WriteByte('}')
	return b.String()
}
