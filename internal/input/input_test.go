package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestDefaultBindings(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action Action
	}{
		{glfw.KeyEscape, ActionQuit},
		{glfw.KeyW, ActionMoveForward},
		{glfw.KeyS, ActionMoveBackward},
		{glfw.KeyA, ActionMoveLeft},
		{glfw.KeyD, ActionMoveRight},
		{glfw.KeyP, ActionTogglePreview},
	}
	for _, tt := range tests {
		im := NewInputManager()
		im.HandleKeyEvent(tt.key, glfw.Press)
		if !im.IsActive(tt.action) {
			t.Errorf("key %v should activate action %d", tt.key, tt.action)
		}
	}
}

func TestEdgeDetection(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyP, glfw.Press)
	if !im.JustPressed(ActionTogglePreview) {
		t.Fatal("expected JustPressed after press")
	}

	im.PostUpdate()
	if im.JustPressed(ActionTogglePreview) {
		t.Error("JustPressed should clear after PostUpdate")
	}
	if !im.IsActive(ActionTogglePreview) {
		t.Error("held key should stay active")
	}

	// Repeat keeps the key held without a new edge.
	im.HandleKeyEvent(glfw.KeyP, glfw.Repeat)
	if im.JustPressed(ActionTogglePreview) {
		t.Error("repeat should not produce a new press edge")
	}

	im.HandleKeyEvent(glfw.KeyP, glfw.Release)
	if im.IsActive(ActionTogglePreview) || im.JustPressed(ActionTogglePreview) {
		t.Error("release should leave the action inactive without a press edge")
	}
}

func TestUnboundAndInvalid(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyZ, glfw.Press)
	for a := Action(0); a < ActionCount; a++ {
		if im.IsActive(a) {
			t.Errorf("unbound key activated action %d", a)
		}
	}

	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Error("out-of-range actions must report false")
	}

	im.BindKey(glfw.KeyZ, ActionMoveForward)
	im.HandleKeyEvent(glfw.KeyZ, glfw.Press)
	if !im.IsActive(ActionMoveForward) {
		t.Error("custom binding not applied")
	}

	// Both keys drive the same action; the last event wins.
	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	if im.IsActive(ActionMoveForward) {
		t.Error("release of W should clear move forward")
	}
}
