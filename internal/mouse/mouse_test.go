package mouse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(btn tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{Action: tea.MouseActionPress, Button: btn, X: x, Y: y}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 4, W: 20, H: 6}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"interior", 10, 6, true},
		{"top left corner", 2, 4, true},
		{"right edge is exclusive", 22, 6, false},
		{"bottom edge is exclusive", 10, 10, false},
		{"last cell inside", 21, 9, true},
		{"left of rect", 1, 6, false},
		{"above rect", 10, 3, false},
		{"origin", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if (Rect{X: 3, Y: 3, W: 0, H: 5}).Contains(3, 3) {
		t.Error("zero-width rect contains nothing")
	}
	if (Rect{X: 3, Y: 3, W: 5, H: 0}).Contains(3, 3) {
		t.Error("zero-height rect contains nothing")
	}
}

func TestHitMapTopmostWins(t *testing.T) {
	hm := NewHitMap()
	hm.Add("tree-pane", Rect{X: 0, Y: 1, W: 36, H: 30}, nil)
	hm.Add("tree-row", Rect{X: 2, Y: 5, W: 32, H: 1}, 3)

	hit := hm.Test(10, 5)
	if hit == nil || hit.ID != "tree-row" {
		t.Fatalf("expected later region to win, got %v", hit)
	}
	if hit.Data != 3 {
		t.Errorf("region data = %v, want 3", hit.Data)
	}

	hit = hm.Test(10, 8)
	if hit == nil || hit.ID != "tree-pane" {
		t.Fatalf("expected underlying pane hit, got %v", hit)
	}

	if hm.Test(90, 5) != nil {
		t.Error("point outside all regions should miss")
	}
	if NewHitMap().Test(0, 0) != nil {
		t.Error("empty hit map should miss")
	}
}

func TestHitMapClearAndCopy(t *testing.T) {
	hm := NewHitMap()
	hm.AddRect("divider", 36, 1, 1, 30, nil)

	hit := hm.Test(36, 10)
	if hit == nil {
		t.Fatal("expected divider hit before clear")
	}
	if hit.Rect.X != 36 || hit.Rect.H != 30 {
		t.Errorf("AddRect stored wrong rect: %+v", hit.Rect)
	}

	snapshot := hm.Regions()
	snapshot[0].ID = "scribbled"
	if hm.Regions()[0].ID != "divider" {
		t.Error("Regions must return a copy")
	}

	hm.Clear()
	if hm.Test(36, 10) != nil {
		t.Error("expected miss after clear")
	}
}

func TestClickTracking(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("list-entry", Rect{X: 40, Y: 2, W: 40, H: 2}, "inbox.md")

	c1 := h.HandleClick(45, 3)
	if c1.Region == nil || c1.Region.Data != "inbox.md" {
		t.Fatalf("click did not resolve entry: %+v", c1)
	}
	if c1.IsDoubleClick {
		t.Error("first click cannot be a double")
	}

	if c2 := h.HandleClick(45, 3); !c2.IsDoubleClick {
		t.Error("immediate second click should be a double")
	}

	// A double consumes the click state, the next one starts over.
	if c3 := h.HandleClick(45, 3); c3.IsDoubleClick {
		t.Error("click after a double should start a new sequence")
	}
}

func TestClickMissResetsTracking(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("row", Rect{X: 0, Y: 0, W: 10, H: 1}, nil)

	h.HandleClick(5, 0)
	if r := h.HandleClick(50, 50); r.Region != nil {
		t.Fatal("expected miss")
	}
	if h.HandleClick(5, 0).IsDoubleClick {
		t.Error("a miss in between should break the double-click chain")
	}
}

func TestDragLifecycle(t *testing.T) {
	h := NewHandler()

	if h.IsDragging() {
		t.Fatal("fresh handler should not be dragging")
	}

	h.StartDrag(36, 10, "divider", 30)
	if !h.IsDragging() || h.DragRegion() != "divider" {
		t.Fatalf("drag did not start: dragging=%v region=%q", h.IsDragging(), h.DragRegion())
	}
	if h.DragStartValue() != 30 {
		t.Errorf("start value = %d, want 30", h.DragStartValue())
	}

	dx, dy := h.DragDelta(42, 8)
	if dx != 6 || dy != -2 {
		t.Errorf("delta = (%d, %d), want (6, -2)", dx, dy)
	}

	h.EndDrag()
	if h.IsDragging() || h.DragRegion() != "" || h.DragStartValue() != 0 {
		t.Error("EndDrag should reset all drag state")
	}
}

func TestHandleMouseClicks(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("tree-row", Rect{X: 2, Y: 5, W: 30, H: 1}, nil)

	action := h.HandleMouse(press(tea.MouseButtonLeft, 10, 5))
	if action.Type != ActionClick || action.Region == nil {
		t.Fatalf("expected click on region, got %+v", action)
	}

	if a := h.HandleMouse(press(tea.MouseButtonLeft, 10, 5)); a.Type != ActionDoubleClick {
		t.Errorf("expected double click, got %d", a.Type)
	}

	if a := h.HandleMouse(press(tea.MouseButtonLeft, 70, 20)); a.Type != ActionNone {
		t.Errorf("click off every region should be ActionNone, got %d", a.Type)
	}

	if a := h.HandleMouse(press(tea.MouseButtonRight, 10, 5)); a.Type != ActionRightClick {
		t.Errorf("expected right click, got %d", a.Type)
	}
}

func TestHandleMouseScrolls(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("list-pane", Rect{X: 0, Y: 0, W: 80, H: 24}, nil)

	tests := []struct {
		name  string
		msg   tea.MouseMsg
		want  ActionType
		delta int
	}{
		{"wheel up", press(tea.MouseButtonWheelUp, 5, 5), ActionScrollUp, -3},
		{"wheel down", press(tea.MouseButtonWheelDown, 5, 5), ActionScrollDown, 3},
		{
			"shift wheel up pans left",
			tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, Shift: true, X: 5, Y: 5},
			ActionScrollLeft, -3,
		},
		{
			"shift wheel down pans right",
			tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true, X: 5, Y: 5},
			ActionScrollRight, 3,
		},
		// Two-finger swipes arrive as wheel left/right in natural
		// direction and map to the opposite pan.
		{"native wheel left", press(tea.MouseButtonWheelLeft, 5, 5), ActionScrollRight, 3},
		{"native wheel right", press(tea.MouseButtonWheelRight, 5, 5), ActionScrollLeft, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := h.HandleMouse(tt.msg)
			if action.Type != tt.want {
				t.Fatalf("action = %d, want %d", action.Type, tt.want)
			}
			if action.Delta != tt.delta {
				t.Errorf("delta = %d, want %d", action.Delta, tt.delta)
			}
		})
	}
}

func TestHandleMouseDragAndHover(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("divider", Rect{X: 36, Y: 1, W: 1, H: 30}, nil)

	// Motion without an active drag is a hover, with a nil region on
	// miss so components can clear hover state.
	action := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 36, Y: 10})
	if action.Type != ActionHover || action.Region == nil {
		t.Fatalf("expected hover on divider, got %+v", action)
	}
	action = h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 70, Y: 10})
	if action.Type != ActionHover || action.Region != nil {
		t.Fatalf("expected hover miss with nil region, got %+v", action)
	}

	h.StartDrag(36, 10, "divider", 30)

	drag := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 44, Y: 12})
	if drag.Type != ActionDrag {
		t.Fatalf("expected drag motion, got %d", drag.Type)
	}
	if drag.DragDX != 8 || drag.DragDY != 2 {
		t.Errorf("drag delta = (%d, %d), want (8, 2)", drag.DragDX, drag.DragDY)
	}

	end := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionRelease, X: 44, Y: 12})
	if end.Type != ActionDragEnd {
		t.Errorf("expected drag end on release, got %d", end.Type)
	}
	if h.IsDragging() {
		t.Error("release should end the drag")
	}
}

func TestHandleMouseCarriesAlt(t *testing.T) {
	h := NewHandler()
	h.HitMap.Add("tree-row", Rect{X: 2, Y: 5, W: 30, H: 1}, nil)

	action := h.HandleMouse(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		Alt:    true,
		X:      10,
		Y:      5,
	})
	if action.Type != ActionClick {
		t.Fatalf("expected click, got %d", action.Type)
	}
	if !action.Alt {
		t.Error("alt modifier should survive into the resolved action")
	}

	if h.HandleMouse(press(tea.MouseButtonLeft, 10, 5)).Alt {
		t.Error("alt should be false when the modifier is not held")
	}
}
