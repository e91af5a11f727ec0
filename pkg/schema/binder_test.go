package schema

import (
	"sync"
	"testing"

	"github.com/brainlink/simlink/pkg/wire"
)

func descriptor(name string, fields ...wire.FieldDescriptor) *wire.Descriptor {
	return &wire.Descriptor{Name: name, Fields: fields}
}

func TestBind_IdenticalDescriptorsShareHandle(t *testing.T) {
	b := NewBinder()
	d1 := descriptor("State", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32})
	d2 := descriptor("State", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32})

	s1, err := b.Bind(d1)
	if err != nil {
		t.Fatalf("bind d1: %v", err)
	}
	s2, err := b.Bind(d2)
	if err != nil {
		t.Fatalf("bind d2: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected identical descriptors to share a handle, got %p != %p", s1, s2)
	}
}

func TestBind_SameNameDifferentFieldsDiverge(t *testing.T) {
	b := NewBinder()
	d1 := descriptor("State", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32})
	d2 := descriptor("State", wire.FieldDescriptor{Name: "b", Number: 1, Type: wire.TypeInt32})

	s1, _ := b.Bind(d1)
	s2, _ := b.Bind(d2)
	if s1 == s2 {
		t.Fatalf("expected descriptors with same name but different fields to bind distinctly")
	}
}

func TestBind_DifferentNameSameFieldsDiverge(t *testing.T) {
	b := NewBinder()
	d1 := descriptor("A", wire.FieldDescriptor{Name: "x", Number: 1, Type: wire.TypeInt32})
	d2 := descriptor("B", wire.FieldDescriptor{Name: "x", Number: 1, Type: wire.TypeInt32})

	s1, _ := b.Bind(d1)
	s2, _ := b.Bind(d2)
	if s1 == s2 {
		t.Fatalf("expected descriptors with different names but same fields to bind distinctly")
	}
}

func TestBind_AnonymousDescriptorsDivergeByFields(t *testing.T) {
	b := NewBinder()
	d1 := descriptor("", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32})
	d2 := descriptor("", wire.FieldDescriptor{Name: "b", Number: 1, Type: wire.TypeFloat32})

	s1, _ := b.Bind(d1)
	s2, _ := b.Bind(d2)
	if s1 == s2 {
		t.Fatalf("expected distinct anonymous descriptors to bind distinctly")
	}
	if s1.Name != anonymousName {
		t.Fatalf("expected sentinel name, got %q", s1.Name)
	}
}

func TestBind_UnknownReferenceIsFatal(t *testing.T) {
	b := NewBinder()
	d := descriptor("State", wire.FieldDescriptor{
		Name: "img", Number: 1, Type: wire.TypeMessage, ReferenceName: "x.Unknown",
	})

	_, err := b.Bind(d)
	if err == nil {
		t.Fatal("expected BindError, got nil")
	}
	if _, ok := err.(*BindError); !ok {
		t.Fatalf("expected *BindError, got %T", err)
	}
}

func TestBind_ConcurrentCallersConvergeOnOneHandle(t *testing.T) {
	b := NewBinder()
	d := descriptor("Concurrent", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32})

	const n = 64
	results := make([]*Schema, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s, err := b.Bind(descriptor("Concurrent", wire.FieldDescriptor{Name: "a", Number: 1, Type: wire.TypeInt32}))
			if err != nil {
				t.Errorf("bind: %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	first := results[0]
	for i, s := range results {
		if s != first {
			t.Fatalf("result %d diverged from first bound handle", i)
		}
	}
	_ = d
}
