package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan SettingChangedEvent, 1)

	unsub := bus.Subscribe(func(e SettingChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(SettingChangedEvent{Key: "quality_step", Value: 0.5})

	select {
	case got := <-received:
		if got.Key != "quality_step" || got.Value != 0.5 {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan TaskChangedEvent, 1)
	received2 := make(chan TaskChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e TaskChangedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e TaskChangedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(TaskChangedEvent{SessionID: "s1", Fields: []string{"encoder"}})

	for _, ch := range []chan TaskChangedEvent{received1, received2} {
		select {
		case e := <-ch:
			if e.SessionID != "s1" {
				t.Errorf("SessionID = %q, want s1", e.SessionID)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan SessionClosedEvent, 1)

	unsub := bus.Subscribe(func(e SessionClosedEvent) { received <- e })

	bus.Publish(SessionClosedEvent{SessionID: "a"})
	<-received

	unsub()

	bus.Publish(SessionClosedEvent{SessionID: "b"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	settingReceived := make(chan bool, 1)
	presetReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ SettingChangedEvent) { settingReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ PresetAppliedEvent) { presetReceived <- true })
	defer unsub2()

	bus.Publish(SettingChangedEvent{Key: "show_advanced_tab"})
	<-settingReceived

	select {
	case <-presetReceived:
		t.Fatal("Preset subscriber should NOT have received SettingChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(PresetAppliedEvent{Preset: "VP8 Web", Applied: true})
	<-presetReceived

	select {
	case <-settingReceived:
		t.Fatal("Setting subscriber should NOT have received PresetAppliedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	if unsub == nil {
		t.Fatal("expected a no-op unsubscribe function")
	}
	unsub()
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ TaskChangedEvent) { receivedCh <- true })
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(TaskChangedEvent{
					SessionID: "load",
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)

	unsub := SubscribeToChannel[PresetAppliedEvent](bus, ch)
	defer unsub()

	bus.Publish(PresetAppliedEvent{SessionID: "s1", Preset: "VP8 Web", Applied: true})

	select {
	case got := <-ch:
		ev, ok := got.(PresetAppliedEvent)
		if !ok || ev.Preset != "VP8 Web" {
			t.Errorf("got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}
