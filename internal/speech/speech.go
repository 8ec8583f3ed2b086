// Package speech defines the contract for the platform speech engines the
// backend coordinates but does not implement. Recognition and synthesis
// run on the client device; the server side only needs to know whether a
// capability is available and to keep session bookkeeping consistent.
package speech

import (
	"errors"
	"sync"
)

// Capability reports whether a speech engine is available on the current
// platform. Detection happens once at construction, not per call.
type Capability string

const (
	Supported   Capability = "supported"
	Unsupported Capability = "unsupported"
)

// ErrUnsupported is returned when a speech operation is invoked against an
// engine whose capability probe came back negative.
var ErrUnsupported = errors.New("speech: capability unsupported")

// ErrSessionActive is returned when a second listening session is started
// while one is already in flight. Recognition is single-session.
var ErrSessionActive = errors.New("speech: listening session already active")

// RecognitionCallbacks receives the outcome of one listening session.
// Exactly one of OnResult or OnError fires, followed by OnEnd. Nil
// callbacks are tolerated.
type RecognitionCallbacks struct {
	OnResult func(text string)
	OnError  func(reason string)
	OnEnd    func()
}

// Recognizer converts a spoken utterance to text. One session at a time.
type Recognizer interface {
	Capability() Capability
	Start(cb RecognitionCallbacks) error
	// Stop aborts the active session. Safe to call when idle.
	Stop()
}

// Utterance carries one synthesis request with voice tuning.
type Utterance struct {
	Text  string
	Rate  float64
	Pitch float64
	Voice string
}

// Synthesizer renders text as audio. Speaking while an utterance is in
// flight cancels the old one first.
type Synthesizer interface {
	Capability() Capability
	Speak(u Utterance, onDone func()) error
	// Stop cancels the in-flight utterance. Safe to call when idle.
	Stop()
}

// Capabilities is the probe result for both engines, reported to clients
// so the UI can degrade instead of failing.
type Capabilities struct {
	Recognition Capability `json:"recognition"`
	Synthesis   Capability `json:"synthesis"`
}

// Bridge wraps a Recognizer and Synthesizer pair behind session
// bookkeeping: it serializes listening sessions, guarantees the
// one-result-then-end callback order even for misbehaving engines, and
// makes every stop idempotent.
type Bridge struct {
	rec Recognizer
	syn Synthesizer

	mu        sync.Mutex
	listening bool
}

// NewBridge wires the two engines. Either may be nil, in which case the
// corresponding capability reports Unsupported.
func NewBridge(rec Recognizer, syn Synthesizer) *Bridge {
	if rec == nil {
		rec = UnsupportedRecognizer{}
	}
	if syn == nil {
		syn = UnsupportedSynthesizer{}
	}
	return &Bridge{rec: rec, syn: syn}
}

// Capabilities reports the probe result for both engines.
func (b *Bridge) Capabilities() Capabilities {
	return Capabilities{
		Recognition: b.rec.Capability(),
		Synthesis:   b.syn.Capability(),
	}
}

// StartListening begins one recognition session. It returns
// ErrSessionActive if a session is already running and ErrUnsupported when
// recognition is unavailable. The callbacks fire at most once each, with
// OnEnd always last; the session slot is released before OnEnd runs so a
// new session may start from inside the callback.
func (b *Bridge) StartListening(cb RecognitionCallbacks) error {
	if b.rec.Capability() != Supported {
		return ErrUnsupported
	}

	b.mu.Lock()
	if b.listening {
		b.mu.Unlock()
		return ErrSessionActive
	}
	b.listening = true
	b.mu.Unlock()

	var once sync.Once
	release := func() {
		b.mu.Lock()
		b.listening = false
		b.mu.Unlock()
	}

	err := b.rec.Start(RecognitionCallbacks{
		OnResult: func(text string) {
			once.Do(func() {
				if cb.OnResult != nil {
					cb.OnResult(text)
				}
			})
		},
		OnError: func(reason string) {
			once.Do(func() {
				if cb.OnError != nil {
					cb.OnError(reason)
				}
			})
		},
		OnEnd: func() {
			release()
			if cb.OnEnd != nil {
				cb.OnEnd()
			}
		},
	})
	if err != nil {
		release()
		return err
	}
	return nil
}

// StopListening aborts the active session. A no-op when nothing is
// listening or recognition is unsupported.
func (b *Bridge) StopListening() {
	if b.rec.Capability() != Supported {
		return
	}
	b.rec.Stop()
}

// Speak renders an utterance, cancelling any in-flight one first.
func (b *Bridge) Speak(u Utterance, onDone func()) error {
	if b.syn.Capability() != Supported {
		return ErrUnsupported
	}
	b.syn.Stop()
	return b.syn.Speak(u, onDone)
}

// StopSpeaking cancels the in-flight utterance, if any.
func (b *Bridge) StopSpeaking() {
	if b.syn.Capability() != Supported {
		return
	}
	b.syn.Stop()
}

// UnsupportedRecognizer is the fallback when no recognition engine is
// wired. Every operation reports unavailability.
type UnsupportedRecognizer struct{}

func (UnsupportedRecognizer) Capability() Capability           { return Unsupported }
func (UnsupportedRecognizer) Start(RecognitionCallbacks) error { return ErrUnsupported }
func (UnsupportedRecognizer) Stop()                            {}

// UnsupportedSynthesizer is the fallback when no synthesis engine is wired.
type UnsupportedSynthesizer struct{}

func (UnsupportedSynthesizer) Capability() Capability        { return Unsupported }
func (UnsupportedSynthesizer) Speak(Utterance, func()) error { return ErrUnsupported }
func (UnsupportedSynthesizer) Stop()                         {}
