package recognition

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
)

func TestStubReplaysScript(t *testing.T) {
	script := []ScriptStep{
		{IsFinal: false, Text: "hola"},
		{IsFinal: true, Text: "hola equipo"},
		{IsFinal: true, Text: "empezamos"},
	}
	svc := NewStub(logger.Nop(), script, time.Millisecond, false)

	var mu sync.Mutex
	var got []ScriptStep
	started := false
	ended := make(chan struct{})

	h := Handlers{
		OnSessionStarted: func() { started = true },
		OnFragment: func(isFinal bool, text string) {
			mu.Lock()
			got = append(got, ScriptStep{IsFinal: isFinal, Text: text})
			mu.Unlock()
		},
		OnSessionEnded: func() { close(ended) },
	}

	opts := Options{Language: "es-ES", InterimResults: true}
	if err := svc.Open(context.Background(), opts, h); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("session did not end")
	}

	if !started {
		t.Error("OnSessionStarted not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(script) {
		t.Fatalf("fragments = %d, want %d", len(got), len(script))
	}
	for i, step := range script {
		if got[i] != step {
			t.Errorf("fragment[%d] = %+v, want %+v", i, got[i], step)
		}
	}
}

func TestStubSkipsInterimWhenDisabled(t *testing.T) {
	script := []ScriptStep{
		{IsFinal: false, Text: "provisional"},
		{IsFinal: true, Text: "definitivo"},
	}
	svc := NewStub(logger.Nop(), script, time.Millisecond, false)

	var mu sync.Mutex
	var got []string
	ended := make(chan struct{})

	h := Handlers{
		OnFragment: func(isFinal bool, text string) {
			mu.Lock()
			got = append(got, text)
			mu.Unlock()
		},
		OnSessionEnded: func() { close(ended) },
	}

	if err := svc.Open(context.Background(), Options{}, h); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	<-ended

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "definitivo" {
		t.Errorf("fragments = %v, want only the final one", got)
	}
}

func TestStubRequestAccessDenied(t *testing.T) {
	svc := NewStub(logger.Nop(), nil, time.Millisecond, true)
	if err := svc.RequestAccess(context.Background()); err == nil {
		t.Error("RequestAccess() should fail when denial is configured")
	}
}

func TestStubRequestStopEndsSession(t *testing.T) {
	// Continuous mode keeps the session open after the script runs out.
	svc := NewStub(logger.Nop(), nil, time.Millisecond, false)
	ended := make(chan struct{})

	h := Handlers{OnSessionEnded: func() { close(ended) }}
	if err := svc.Open(context.Background(), Options{Continuous: true}, h); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := svc.RequestStop(); err != nil {
		t.Fatalf("RequestStop() error = %v", err)
	}

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("RequestStop did not deliver OnSessionEnded")
	}

	// A second stop must not deliver the event again (channel is closed,
	// another close would panic).
	if err := svc.RequestStop(); err != nil {
		t.Fatalf("second RequestStop() error = %v", err)
	}
}

func TestStubForceTerminateIsSilent(t *testing.T) {
	svc := NewStub(logger.Nop(), nil, time.Millisecond, false)
	h := Handlers{OnSessionEnded: func() { t.Error("OnSessionEnded must not fire on ForceTerminate") }}

	if err := svc.Open(context.Background(), Options{Continuous: true}, h); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := svc.ForceTerminate(); err != nil {
		t.Fatalf("ForceTerminate() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
}
