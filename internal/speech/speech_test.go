package speech

import (
	"errors"
	"testing"
)

// fakeRecognizer drives callbacks manually so tests control session
// lifecycle and can deliberately misbehave (double-fire, error after
// result) to verify the bridge's ordering guarantees.
type fakeRecognizer struct {
	cb       RecognitionCallbacks
	started  int
	stopped  int
	startErr error
}

func (f *fakeRecognizer) Capability() Capability { return Supported }

func (f *fakeRecognizer) Start(cb RecognitionCallbacks) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.cb = cb
	f.started++
	return nil
}

func (f *fakeRecognizer) Stop() {
	f.stopped++
	if f.cb.OnEnd != nil {
		end := f.cb.OnEnd
		f.cb = RecognitionCallbacks{}
		end()
	}
}

type fakeSynthesizer struct {
	spoken  []Utterance
	onDone  func()
	stopped int
}

func (f *fakeSynthesizer) Capability() Capability { return Supported }

func (f *fakeSynthesizer) Speak(u Utterance, onDone func()) error {
	f.spoken = append(f.spoken, u)
	f.onDone = onDone
	return nil
}

func (f *fakeSynthesizer) Stop() {
	f.stopped++
	f.onDone = nil
}

func TestBridge_ListenResultThenEnd(t *testing.T) {
	rec := &fakeRecognizer{}
	b := NewBridge(rec, nil)

	var events []string
	err := b.StartListening(RecognitionCallbacks{
		OnResult: func(text string) { events = append(events, "result:"+text) },
		OnError:  func(reason string) { events = append(events, "error:"+reason) },
		OnEnd:    func() { events = append(events, "end") },
	})
	if err != nil {
		t.Fatalf("StartListening: %v", err)
	}

	rec.cb.OnResult("hello there")
	rec.cb.OnEnd()

	if len(events) != 2 || events[0] != "result:hello there" || events[1] != "end" {
		t.Fatalf("events = %v", events)
	}
}

func TestBridge_SingleSession(t *testing.T) {
	rec := &fakeRecognizer{}
	b := NewBridge(rec, nil)

	if err := b.StartListening(RecognitionCallbacks{}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := b.StartListening(RecognitionCallbacks{}); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second start = %v, want ErrSessionActive", err)
	}

	// End releases the slot; a new session may start immediately.
	rec.cb.OnEnd()
	if err := b.StartListening(RecognitionCallbacks{}); err != nil {
		t.Fatalf("restart after end: %v", err)
	}
}

func TestBridge_ExactlyOneOutcome(t *testing.T) {
	rec := &fakeRecognizer{}
	b := NewBridge(rec, nil)

	var results, errs int
	if err := b.StartListening(RecognitionCallbacks{
		OnResult: func(string) { results++ },
		OnError:  func(string) { errs++ },
	}); err != nil {
		t.Fatalf("StartListening: %v", err)
	}

	// A misbehaving engine fires a result twice and then an error; only
	// the first outcome may reach the caller.
	rec.cb.OnResult("once")
	rec.cb.OnResult("twice")
	rec.cb.OnError("late failure")
	rec.cb.OnEnd()

	if results != 1 || errs != 0 {
		t.Fatalf("results=%d errs=%d, want 1/0", results, errs)
	}
}

func TestBridge_StartFailureReleasesSlot(t *testing.T) {
	rec := &fakeRecognizer{startErr: errors.New("mic busy")}
	b := NewBridge(rec, nil)

	if err := b.StartListening(RecognitionCallbacks{}); err == nil {
		t.Fatal("expected start error")
	}
	rec.startErr = nil
	if err := b.StartListening(RecognitionCallbacks{}); err != nil {
		t.Fatalf("slot not released after failed start: %v", err)
	}
}

func TestBridge_StopIdempotent(t *testing.T) {
	rec := &fakeRecognizer{}
	syn := &fakeSynthesizer{}
	b := NewBridge(rec, syn)

	// Stopping with nothing active is a no-op, repeatedly.
	b.StopListening()
	b.StopListening()
	b.StopSpeaking()
	b.StopSpeaking()

	if rec.stopped != 2 || syn.stopped != 2 {
		t.Fatalf("stops not forwarded: rec=%d syn=%d", rec.stopped, syn.stopped)
	}
}

func TestBridge_SpeakCancelsInFlight(t *testing.T) {
	syn := &fakeSynthesizer{}
	b := NewBridge(nil, syn)

	if err := b.Speak(Utterance{Text: "first", Rate: 1, Pitch: 1}, nil); err != nil {
		t.Fatalf("first Speak: %v", err)
	}
	if err := b.Speak(Utterance{Text: "second", Rate: 1.2, Pitch: 0.8}, nil); err != nil {
		t.Fatalf("second Speak: %v", err)
	}

	if syn.stopped == 0 {
		t.Fatal("second Speak must cancel the in-flight utterance")
	}
	if len(syn.spoken) != 2 || syn.spoken[1].Text != "second" {
		t.Fatalf("spoken = %+v", syn.spoken)
	}
}

func TestBridge_UnsupportedEngines(t *testing.T) {
	b := NewBridge(nil, nil)

	caps := b.Capabilities()
	if caps.Recognition != Unsupported || caps.Synthesis != Unsupported {
		t.Fatalf("capabilities = %+v", caps)
	}

	if err := b.StartListening(RecognitionCallbacks{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("StartListening = %v, want ErrUnsupported", err)
	}
	if err := b.Speak(Utterance{Text: "hi"}, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Speak = %v, want ErrUnsupported", err)
	}

	// Stops stay safe when nothing is wired.
	b.StopListening()
	b.StopSpeaking()
}
