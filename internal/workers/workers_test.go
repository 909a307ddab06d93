package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers_RunsAllInOrder(t *testing.T) {
	var order []string

	w := New(
		WorkerFunc(func() { order = append(order, "first") }),
		WorkerFunc(func() { order = append(order, "second") }),
	)
	w.Run()

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestWorkers_EmptyIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { New().Run() })
}
