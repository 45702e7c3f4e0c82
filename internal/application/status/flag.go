// Package status contiene los indicadores globales que la capa de presentación dibuja
// (loading, syncing).
package status

import "sync/atomic"

// Flag indicador booleano con conteo: está encendido mientras quede al menos un Raise
// sin su Lower correspondiente. Operaciones solapadas no se apagan entre sí.
type Flag struct {
	n atomic.Int64
}

// Raise enciende (o mantiene encendido) el indicador.
func (f *Flag) Raise() { f.n.Add(1) }

// Lower retira un Raise. Nunca baja de cero.
func (f *Flag) Lower() {
	for {
		cur := f.n.Load()
		if cur <= 0 {
			return
		}
		if f.n.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// On informa si el indicador está encendido.
func (f *Flag) On() bool { return f.n.Load() > 0 }

// Pending número de Raise pendientes.
func (f *Flag) Pending() int64 { return f.n.Load() }
