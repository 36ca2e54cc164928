package registry

import (
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

type stubGame struct {
	settings Settings
}

func (g *stubGame) ID() string                           { return "stub" }
func (g *stubGame) Title() string                        { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub", func(s Settings) Game {
		return &stubGame{settings: s}
	})

	if !Exists("stub") {
		t.Fatal("Exists(stub) = false after Register")
	}

	found := false
	for _, info := range List() {
		if info.ID == "stub" {
			found = true
			if info.Title != "Stub" {
				t.Errorf("Title = %q, expected Stub", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() does not include stub")
	}

	g, err := Create("stub", Settings{Record: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !g.(*stubGame).settings.Record {
		t.Error("Create() did not pass settings to the factory")
	}

	if _, err := Create("missing", Settings{}); err == nil {
		t.Error("Create(missing) should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup", func(Settings) Game { return &stubGame{} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("dup", func(Settings) Game { return &stubGame{} })
}
