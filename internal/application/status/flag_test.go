package status_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/escolar/internal/application/status"
)

func TestFlag_RaiseLower(t *testing.T) {
	var f status.Flag
	assert.False(t, f.On(), "un Flag nuevo está apagado")

	f.Raise()
	f.Raise()
	f.Lower()
	assert.True(t, f.On(), "con un Raise pendiente sigue encendido")

	f.Lower()
	assert.False(t, f.On())
}

func TestFlag_LowerNuncaNegativo(t *testing.T) {
	var f status.Flag
	f.Lower()
	f.Lower()
	assert.Equal(t, int64(0), f.Pending())

	f.Raise()
	assert.True(t, f.On(), "un Lower de más no debe tragarse el siguiente Raise")
}

func TestFlag_Concurrente(t *testing.T) {
	var f status.Flag
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Raise()
			f.Lower()
		}()
	}
	wg.Wait()
	assert.False(t, f.On())
}
