package usecase_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestNewDebouncer_Clamp(t *testing.T) {
	gt.Value(t, usecase.NewDebouncer(0).Delay()).Equal(usecase.DefaultDebounce)
	gt.Value(t, usecase.NewDebouncer(50*time.Millisecond).Delay()).Equal(usecase.MinDebounce)
	gt.Value(t, usecase.NewDebouncer(time.Second).Delay()).Equal(usecase.MaxDebounce)
	gt.Value(t, usecase.NewDebouncer(220*time.Millisecond).Delay()).Equal(220 * time.Millisecond)
}

func TestDebouncer_Coalesces(t *testing.T) {
	d := usecase.NewDebouncer(usecase.MinDebounce)
	defer d.Stop()

	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(20 * time.Millisecond)
	}

	gt.Bool(t, waitFor(func() bool { return calls.Load() == 1 })).True()
	time.Sleep(usecase.MaxDebounce)
	gt.Value(t, calls.Load()).Equal(int32(1))
	gt.Value(t, last.Load()).Equal(int32(5))
}

func TestDebouncer_Stop(t *testing.T) {
	d := usecase.NewDebouncer(usecase.MinDebounce)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(usecase.MaxDebounce + 50*time.Millisecond)
	gt.Value(t, calls.Load()).Equal(int32(0))
}
