package music

import "math/rand/v2"

// Picker chooses an index in [0, n). n is always > 0.
type Picker interface {
	Intn(n int) int
}

type randPicker struct{}

func (randPicker) Intn(n int) int {
	return rand.IntN(n)
}

// RandomPicker returns a Picker backed by the runtime's unseeded source.
func RandomPicker() Picker {
	return randPicker{}
}

func pickString(p Picker, options []string) string {
	return options[p.Intn(len(options))]
}
