package simulator

import "github.com/brainlink/simlink/pkg/wire"

// GeneratorAdapter wires a Generator's registration and next-data exchange
// into the wire protocol. Generator driving is a placeholder in this
// specification (see the Generator glossary entry): only the plumbing a
// future generator driver would need is supplied here.
type GeneratorAdapter struct {
	generatorName string
	gen           Generator
}

// NewGeneratorAdapter constructs a GeneratorAdapter for gen, identified to
// the backend as generatorName.
func NewGeneratorAdapter(generatorName string, gen Generator) *GeneratorAdapter {
	return &GeneratorAdapter{generatorName: generatorName, gen: gen}
}

// GenerateRegisterMessage builds the REGISTER message a generator session
// begins with.
func (a *GeneratorAdapter) GenerateRegisterMessage() *wire.SimulatorToServer {
	return &wire.SimulatorToServer{
		Type:          wire.SimulatorRegister,
		SimulatorName: a.generatorName,
	}
}

// GenerateNextData pulls the next sample from the underlying Generator.
func (a *GeneratorAdapter) GenerateNextData() (map[string]any, error) {
	return a.gen.GetNextData()
}
