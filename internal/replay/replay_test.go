package replay

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// play runs a scripted session starting at tick start and returns the
// finished log.
func play(t *testing.T, opts engine.Options, start uint32, ticks int) Log {
	t.Helper()

	rec := NewRecorder(opts, start)
	opts.Observer = rec
	s := engine.NewSession(opts, start)

	pattern := []engine.Event{
		engine.EventLeft, engine.EventNone, engine.EventRotate, engine.EventNone,
		engine.EventRight, engine.EventRight, engine.EventNone, engine.EventHardDrop,
		engine.EventNone, engine.EventSoftDrop,
	}
	for i := 1; i <= ticks; i++ {
		s.Update(start+uint32(i), pattern[i%len(pattern)])
	}
	return rec.Finish(s)
}

func TestRecorderOffsetsTicks(t *testing.T) {
	rec := NewRecorder(engine.Options{Seed: 9}, 100)
	rec.OnInput(103, engine.EventLeft)
	rec.OnInput(110, engine.EventHardDrop)

	require.Equal(t, 2, rec.Len())
	s := engine.NewSession(engine.Options{Seed: 9}, 100)
	l := rec.Finish(s)
	assert.Equal(t, []Input{{Tick: 3, Event: engine.EventLeft}, {Tick: 10, Event: engine.EventHardDrop}}, l.Inputs)
	assert.Equal(t, uint32(9), l.Seed)
	assert.Equal(t, FormatVersion, l.Version)
}

func TestVerifyRoundTrip(t *testing.T) {
	l := play(t, engine.Options{Seed: 1234}, 0, 900)
	require.NotEmpty(t, l.Inputs)

	res, err := Verify(l)
	require.NoError(t, err)
	assert.Equal(t, l.Result, res)
}

func TestVerifyWithOffsetStartAndWrap(t *testing.T) {
	l := play(t, engine.Options{Seed: 77, Width: 8, Height: 14}, 0xFFFFFF00, 700)

	_, err := Verify(l)
	require.NoError(t, err)
	assert.Equal(t, 8, l.Width)
	assert.Equal(t, 14, l.Height)
}

func TestVerifyCustomDropTable(t *testing.T) {
	l := play(t, engine.Options{Seed: 5, DropTable: []uint32{3, 2, 1}}, 0, 400)
	assert.Equal(t, []uint32{3, 2, 1}, l.DropTable)

	_, err := Verify(l)
	require.NoError(t, err)
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := play(t, engine.Options{Seed: 42}, 0, 600)

	tampered := l
	tampered.Inputs = append([]Input(nil), l.Inputs...)
	tampered.Inputs[0].Event = engine.EventHardDrop
	_, err := Verify(tampered)
	assert.True(t, errors.Is(err, ErrMismatch), "got %v", err)

	reseeded := l
	reseeded.Seed++
	_, err = Verify(reseeded)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestSimulateRejectsBadLogs(t *testing.T) {
	l := play(t, engine.Options{Seed: 3}, 0, 50)

	old := l
	old.Version = 0
	_, err := Simulate(old, nil)
	assert.Error(t, err)

	late := l
	late.Inputs = append(append([]Input(nil), l.Inputs...), Input{Tick: l.Ticks + 5, Event: engine.EventLeft})
	_, err = Simulate(late, nil)
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	l := play(t, engine.Options{Seed: 8}, 0, 500)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, l))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, l.Inputs, got.Inputs)
	assert.Equal(t, l.Result, got.Result)
	assert.True(t, l.RecordedAt.Equal(got.RecordedAt))

	_, err = Verify(got)
	assert.NoError(t, err)
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not zstd at all"))
	assert.Error(t, err)
}
