package wire

// encodeDescriptor writes a Descriptor: name, then a varint field count,
// then each field in declaration order.
func encodeDescriptor(e *Encoder, d *Descriptor) {
	e.WriteString(d.Name)
	e.WriteUvarint(uint64(len(d.Fields)))
	for _, f := range d.Fields {
		e.WriteString(f.Name)
		e.WriteUvarint(uint64(f.Number))
		e.WriteByte(byte(f.Label))
		e.WriteByte(byte(f.Type))
		e.WriteString(f.ReferenceName)
	}
}

func decodeDescriptor(d *Decoder) (Descriptor, error) {
	name, err := d.ReadString()
	if err != nil {
		return Descriptor{}, err
	}
	count, err := d.ReadDescriptorFieldCount()
	if err != nil {
		return Descriptor{}, err
	}
	fields := make([]FieldDescriptor, count)
	for i := 0; i < count; i++ {
		f := &fields[i]
		if f.Name, err = d.ReadString(); err != nil {
			return Descriptor{}, err
		}
		num, err := d.ReadUvarint()
		if err != nil {
			return Descriptor{}, err
		}
		f.Number = uint32(num)
		label, err := d.ReadByte()
		if err != nil {
			return Descriptor{}, err
		}
		f.Label = FieldLabel(label)
		typ, err := d.ReadByte()
		if err != nil {
			return Descriptor{}, err
		}
		f.Type = PrimitiveType(typ)
		if f.ReferenceName, err = d.ReadString(); err != nil {
			return Descriptor{}, err
		}
	}
	return Descriptor{Name: name, Fields: fields}, nil
}

// EncodeServerToSimulator encodes a ServerToSimulator message to bytes.
func EncodeServerToSimulator(msg *ServerToSimulator) []byte {
	e := NewEncoder()
	EncodeServerToSimulatorTo(e, msg)
	return e.Bytes()
}

// EncodeServerToSimulatorTo encodes a ServerToSimulator message using the
// provided encoder. Present mainly for tests that build fixtures; a real
// client never emits this type, only decodes it.
func EncodeServerToSimulatorTo(e *Encoder, msg *ServerToSimulator) {
	e.WriteByte(byte(msg.Type))

	switch msg.Type {
	case ServerAckRegister:
		ack := msg.AckRegisterData
		if ack == nil {
			ack = &AckRegisterData{}
		}
		e.WriteUvarint(ack.SimID)
		encodeDescriptor(e, &ack.PropertiesSchema)
		encodeDescriptor(e, &ack.OutputSchema)
		encodeDescriptor(e, &ack.PredictionSchema)

	case ServerSetProperties:
		sp := msg.SetPropertiesData
		if sp == nil {
			sp = &SetPropertiesData{}
		}
		e.WriteLenBytes(sp.DynamicProperties)
		e.WriteString(sp.RewardName)
		encodeDescriptor(e, &sp.PredictionSchema)

	case ServerPrediction:
		e.WriteUvarint(uint64(len(msg.PredictionData)))
		for i := range msg.PredictionData {
			e.WriteLenBytes(msg.PredictionData[i].DynamicPrediction)
		}

	case ServerStart, ServerStop, ServerReset, ServerFinished:
		// no payload

	default:
		// unknown type: no payload to write
	}
}

// DecodeServerToSimulator decodes a ServerToSimulator message from bytes.
func DecodeServerToSimulator(data []byte) (*ServerToSimulator, error) {
	d := NewDecoder(data)
	return DecodeServerToSimulatorFrom(d)
}

// DecodeServerToSimulatorFrom decodes a ServerToSimulator message from a decoder.
func DecodeServerToSimulatorFrom(d *Decoder) (*ServerToSimulator, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	msg := &ServerToSimulator{Type: ServerMessageType(typeByte)}

	switch msg.Type {
	case ServerAckRegister:
		simID, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		propSchema, err := decodeDescriptor(d)
		if err != nil {
			return nil, err
		}
		outSchema, err := decodeDescriptor(d)
		if err != nil {
			return nil, err
		}
		predSchema, err := decodeDescriptor(d)
		if err != nil {
			return nil, err
		}
		msg.AckRegisterData = &AckRegisterData{
			SimID:            simID,
			PropertiesSchema: propSchema,
			OutputSchema:     outSchema,
			PredictionSchema: predSchema,
		}

	case ServerSetProperties:
		dynProps, err := d.ReadLenBytes()
		if err != nil {
			return nil, err
		}
		rewardName, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		predSchema, err := decodeDescriptor(d)
		if err != nil {
			return nil, err
		}
		msg.SetPropertiesData = &SetPropertiesData{
			DynamicProperties: dynProps,
			RewardName:        rewardName,
			PredictionSchema:  predSchema,
		}

	case ServerPrediction:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		entries := make([]PredictionEntry, count)
		for i := 0; i < count; i++ {
			b, err := d.ReadLenBytes()
			if err != nil {
				return nil, err
			}
			entries[i] = PredictionEntry{DynamicPrediction: b}
		}
		msg.PredictionData = entries

	case ServerStart, ServerStop, ServerReset, ServerFinished:
		// no payload

	default:
		// unknown type: leave as-is, caller decides whether this is fatal
	}

	return msg, nil
}

// EncodeSimulatorToServer encodes a SimulatorToServer message to bytes.
func EncodeSimulatorToServer(msg *SimulatorToServer) []byte {
	e := NewEncoder()
	EncodeSimulatorToServerTo(e, msg)
	return e.Bytes()
}

// EncodeSimulatorToServerTo encodes a SimulatorToServer message using the
// provided encoder.
func EncodeSimulatorToServerTo(e *Encoder, msg *SimulatorToServer) {
	e.WriteByte(byte(msg.Type))
	e.WriteUvarint(msg.SessionID)

	switch msg.Type {
	case SimulatorRegister:
		e.WriteString(msg.SimulatorName)

	case SimulatorReady:
		// no payload beyond session id

	case SimulatorState:
		e.WriteUvarint(uint64(len(msg.StateData)))
		for i := range msg.StateData {
			sd := &msg.StateData[i]
			e.WriteLenBytes(sd.State)
			e.WriteFloat64(sd.Reward)
			e.WriteBool(sd.Terminal)
			hasAction := sd.ActionTaken != nil
			e.WriteBool(hasAction)
			if hasAction {
				e.WriteLenBytes(sd.ActionTaken)
			}
		}

	default:
		// unknown type: no payload to write
	}
}

// DecodeSimulatorToServer decodes a SimulatorToServer message from bytes.
func DecodeSimulatorToServer(data []byte) (*SimulatorToServer, error) {
	d := NewDecoder(data)
	return DecodeSimulatorToServerFrom(d)
}

// DecodeSimulatorToServerFrom decodes a SimulatorToServer message from a decoder.
func DecodeSimulatorToServerFrom(d *Decoder) (*SimulatorToServer, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	msg := &SimulatorToServer{Type: SimulatorMessageType(typeByte)}

	sessionID, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	msg.SessionID = sessionID

	switch msg.Type {
	case SimulatorRegister:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		msg.SimulatorName = name

	case SimulatorReady:
		// no payload beyond session id

	case SimulatorState:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		entries := make([]StateDataEntry, count)
		for i := 0; i < count; i++ {
			sd := &entries[i]
			if sd.State, err = d.ReadLenBytes(); err != nil {
				return nil, err
			}
			if sd.Reward, err = d.ReadFloat64(); err != nil {
				return nil, err
			}
			if sd.Terminal, err = d.ReadBool(); err != nil {
				return nil, err
			}
			hasAction, err := d.ReadBool()
			if err != nil {
				return nil, err
			}
			if hasAction {
				if sd.ActionTaken, err = d.ReadLenBytes(); err != nil {
					return nil, err
				}
			}
		}
		msg.StateData = entries

	default:
		// unknown type: leave as-is
	}

	return msg, nil
}
