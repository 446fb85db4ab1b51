package mainthread

import (
	"sync"
	"testing"
)

func TestImmediateRunsInline(t *testing.T) {
	ran := false
	Immediate{}.Run(func() { ran = true })
	if !ran {
		t.Fatal("expected function to run synchronously")
	}
	// Nil functions are ignored.
	Immediate{}.Run(nil)
}

func TestSerialQueueFIFO(t *testing.T) {
	q := NewSerialQueue()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Run(func() { order = append(order, i) })
	}
	if q.Len() != 5 {
		t.Fatalf("expected 5 pending, got %d", q.Len())
	}
	if ran := q.Drain(); ran != 5 {
		t.Fatalf("expected 5 ran, got %d", ran)
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("out of order at %d: %v", i, order)
		}
	}
}

func TestSerialQueueDrainRunsNestedEnqueues(t *testing.T) {
	q := NewSerialQueue()
	nested := false
	q.Run(func() {
		q.Run(func() { nested = true })
	})
	q.Drain()
	if !nested {
		t.Fatal("expected work enqueued during drain to run in the same pass")
	}
}

func TestSerialQueueConcurrentProducers(t *testing.T) {
	q := NewSerialQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Run(func() {})
		}()
	}
	wg.Wait()
	if ran := q.Drain(); ran != 50 {
		t.Fatalf("expected 50 ran, got %d", ran)
	}
}
