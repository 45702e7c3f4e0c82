package state

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
)

// slot contrato interno de un dominio dentro del Store. No es seguro para uso
// concurrente: el Store lo protege con su mutex.
type slot interface {
	key() entity.DomainKey
	decode(raw json.RawMessage) (any, error)
	assign(v any) error
	value() any
	reset()
}

// typedSlot guarda el snapshot actual de un dominio con su tipo concreto.
type typedSlot[T any] struct {
	k     entity.DomainKey
	def   func() T
	clone func(T) T
	cur   T
}

func newCollection[E any](k entity.DomainKey) *typedSlot[[]E] {
	s := &typedSlot[[]E]{
		k:     k,
		def:   func() []E { return []E{} },
		clone: cloneSlice[E],
	}
	s.reset()
	return s
}

func newRecord[T any](k entity.DomainKey, def func() T) *typedSlot[T] {
	s := &typedSlot[T]{
		k:     k,
		def:   def,
		clone: deepClone[T],
	}
	s.reset()
	return s
}

func cloneSlice[E any](v []E) []E {
	out := deepClone(v)
	if out == nil {
		return []E{}
	}
	return out
}

// deepClone copia v sin compartir slices, mapas ni punteros anidados (ida y vuelta JSON,
// el mismo formato con el que el dominio viaja al almacén remoto).
func deepClone[T any](v T) T {
	b, err := json.Marshal(v)
	if err != nil {
		// los tipos de dominio siempre serializan
		panic(fmt.Sprintf("clonar %T: %v", v, err))
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("clonar %T: %v", v, err))
	}
	return out
}

func (s *typedSlot[T]) key() entity.DomainKey { return s.k }

func (s *typedSlot[T]) decode(raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, s.k, err)
	}
	return s.clone(v), nil
}

// assign acepta un valor del tipo del dominio o JSON crudo.
func (s *typedSlot[T]) assign(v any) error {
	switch x := v.(type) {
	case T:
		s.cur = s.clone(x)
		return nil
	case json.RawMessage:
		d, err := s.decode(x)
		if err != nil {
			return err
		}
		s.cur = d.(T)
		return nil
	default:
		return fmt.Errorf("%w: %s no acepta %T", domain.ErrInvalidInput, s.k, v)
	}
}

func (s *typedSlot[T]) value() any { return s.clone(s.cur) }

func (s *typedSlot[T]) reset() { s.cur = s.def() }
