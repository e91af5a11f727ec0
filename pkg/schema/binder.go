package schema

import (
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/brainlink/simlink/pkg/wire"
)

// anonymousName is substituted for a descriptor's name when the backend
// sends an empty one, so two anonymous descriptors with different field
// sets still fingerprint distinctly.
const anonymousName = "$anonymous"

// Binder turns wire descriptors into memoized Schema handles. A single
// Binder is safe to share across sessions and goroutines: Bind uses a
// double-checked insert so concurrent callers racing on the same
// fingerprint converge on one Schema instance.
type Binder struct {
	mu   sync.Mutex
	byFP map[uint64]*Schema

	// OnBind, if set, is called after every Bind with whether the
	// fingerprint was already memoized (a cache hit) and whether the call
	// failed with a BindError. Intended for metrics wiring; never required.
	OnBind func(hit bool, err error)

	// Trace, if set, wraps the schema build taken on a cache miss (the only
	// part of Bind worth tracing — a hit is a single map read); the insert
	// into the memo table happens after Trace returns.
	// Intended for tracing wiring; never required.
	Trace func(descriptorName string, fn func() error) error
}

// NewBinder returns an empty Binder.
func NewBinder() *Binder {
	return &Binder{byFP: make(map[uint64]*Schema)}
}

// Bind computes the descriptor's structural fingerprint and returns the
// memoized Schema for it, synthesizing and inserting a new one on first
// sighting. Returns *BindError if a field references an unregistered type.
func (b *Binder) Bind(d *wire.Descriptor) (*Schema, error) {
	fp := Fingerprint(d)

	b.mu.Lock()
	if s, ok := b.byFP[fp]; ok {
		b.mu.Unlock()
		b.notify(true, nil)
		return s, nil
	}
	b.mu.Unlock()

	var s *Schema
	var err error
	if b.Trace != nil {
		err = b.Trace(d.Name, func() error {
			s, err = build(d, fp)
			return err
		})
	} else {
		s, err = build(d, fp)
	}
	if err != nil {
		b.notify(false, err)
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.byFP[fp]; ok {
		b.notify(true, nil)
		return existing, nil
	}
	b.byFP[fp] = s
	b.notify(false, nil)
	return s, nil
}

func (b *Binder) notify(hit bool, err error) {
	if b.OnBind != nil {
		b.OnBind(hit, err)
	}
}

func build(d *wire.Descriptor, fp uint64) (*Schema, error) {
	name := d.Name
	if name == "" {
		name = anonymousName
	}

	fields := make([]Field, len(d.Fields))
	for i, fd := range d.Fields {
		if fd.Type == wire.TypeMessage && !IsBuiltinReference(fd.ReferenceName) {
			return nil, &BindError{DescriptorName: name, ReferenceName: fd.ReferenceName}
		}
		fields[i] = Field{
			Name:          fd.Name,
			Number:        fd.Number,
			Type:          fd.Type,
			ReferenceName: fd.ReferenceName,
		}
	}

	return &Schema{Name: name, Fields: fields, Fingerprint: fp}, nil
}

// Fingerprint computes a pure structural hash of a descriptor's name
// (anonymousName when empty) followed by its field tuples (name, number,
// label, type, reference-name) in order. Descriptors with the same name and
// identical tuples in the same order hash identically; because the name is
// folded in first, same-fields-different-name descriptors diverge.
func Fingerprint(d *wire.Descriptor) uint64 {
	name := d.Name
	if name == "" {
		name = anonymousName
	}

	h := fnv.New64a()
	writeFPString(h, name)
	for _, f := range d.Fields {
		writeFPString(h, f.Name)
		writeFPUint(h, uint64(f.Number))
		writeFPUint(h, uint64(f.Label))
		writeFPUint(h, uint64(f.Type))
		writeFPString(h, f.ReferenceName)
	}
	return h.Sum64()
}

func writeFPString(h interface{ Write([]byte) (int, error) }, s string) {
	h.Write([]byte(strconv.Itoa(len(s))))
	h.Write([]byte{0})
	h.Write([]byte(s))
	h.Write([]byte{0})
}

func writeFPUint(h interface{ Write([]byte) (int, error) }, v uint64) {
	h.Write([]byte(strconv.FormatUint(v, 10)))
	h.Write([]byte{0})
}
