// Package mouse provides hit-region tracking and gesture detection for
// terminal mouse input. Components register rectangular regions during
// render; the handler resolves clicks, double clicks, scrolls, hovers,
// and drags against those regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a rectangular screen area in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) falls inside the rect.
// The right and bottom edges are exclusive, so a zero-size rect
// contains nothing.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area with optional attached data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered for the current frame.
// Regions are tested in reverse registration order, so regions added
// later win over earlier ones when they overlap.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region with the given rect and data.
func (hm *HitMap) Add(id string, rect Rect, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect registers a region from raw coordinates.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the topmost region containing (x, y), or nil if none.
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			r := hm.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes all registered regions. Call at the start of each
// render pass before re-registering.
func (hm *HitMap) Clear() {
	hm.regions = hm.regions[:0]
}

// Regions returns a copy of the registered regions.
func (hm *HitMap) Regions() []Region {
	out := make([]Region, len(hm.regions))
	copy(out, hm.regions)
	return out
}

// doubleClickWindow is the maximum delay between two clicks on the
// same region for the second to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// scrollStep is the number of lines a single wheel tick scrolls.
const scrollStep = 3

// ActionType classifies a resolved mouse gesture.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionRightClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the result of resolving a raw mouse message.
type MouseAction struct {
	Type   ActionType
	Region *Region // hit region, nil on miss (hover reports misses)
	Delta  int     // scroll amount in lines, negative is up/left
	DragDX int     // horizontal distance from drag origin
	DragDY int     // vertical distance from drag origin
	X, Y   int     // raw event coordinates
	Alt    bool    // alt held during the event
}

// ClickResult describes a resolved click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
	X, Y          int
}

// Handler resolves raw tea mouse messages against a hit map and
// tracks click and drag state across messages.
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickAt   time.Time
	lastWasDouble bool

	dragging       bool
	dragRegion     string
	dragStartX     int
	dragStartY     int
	dragStartValue int
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear resets the hit map for a new render pass. Click and drag
// state survive so gestures can span frames.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleClick resolves a left click at (x, y) and updates double-click
// tracking. A second click on the same region within the double-click
// window reports IsDoubleClick; the click after a double starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	result := ClickResult{Region: region, X: x, Y: y}

	if region == nil {
		h.lastClickID = ""
		h.lastWasDouble = false
		return result
	}

	now := time.Now()
	if !h.lastWasDouble && region.ID == h.lastClickID && now.Sub(h.lastClickAt) <= doubleClickWindow {
		result.IsDoubleClick = true
		h.lastWasDouble = true
	} else {
		h.lastWasDouble = false
	}
	h.lastClickID = region.ID
	h.lastClickAt = now
	return result
}

// StartDrag begins a drag anchored at (x, y) on the given region.
// startValue carries the dragged quantity's initial value (a pane
// width, a scroll offset) so handlers can apply deltas to it.
func (h *Handler) StartDrag(x, y int, regionID string, startValue int) {
	h.dragging = true
	h.dragRegion = regionID
	h.dragStartX = x
	h.dragStartY = y
	h.dragStartValue = startValue
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region ID the current drag started on.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value captured at StartDrag.
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// DragDelta returns the distance from the drag origin to (x, y).
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag clears drag state.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStartValue = 0
}

// HandleMouse resolves a raw mouse message into a MouseAction.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	action := MouseAction{Type: ActionNone, X: msg.X, Y: msg.Y, Alt: msg.Alt}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			result := h.HandleClick(msg.X, msg.Y)
			if result.Region == nil {
				return action
			}
			action.Region = result.Region
			if result.IsDoubleClick {
				action.Type = ActionDoubleClick
			} else {
				action.Type = ActionClick
			}
			return action

		case tea.MouseButtonRight:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			if action.Region == nil {
				return action
			}
			action.Type = ActionRightClick
			return action

		case tea.MouseButtonWheelUp:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			if msg.Shift {
				action.Type = ActionScrollLeft
				action.Delta = -scrollStep
			} else {
				action.Type = ActionScrollUp
				action.Delta = -scrollStep
			}
			return action

		case tea.MouseButtonWheelDown:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			if msg.Shift {
				action.Type = ActionScrollRight
				action.Delta = scrollStep
			} else {
				action.Type = ActionScrollDown
				action.Delta = scrollStep
			}
			return action

		case tea.MouseButtonWheelLeft:
			// Terminals report two-finger swipes in natural direction.
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type = ActionScrollRight
			action.Delta = scrollStep
			return action

		case tea.MouseButtonWheelRight:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type = ActionScrollLeft
			action.Delta = -scrollStep
			return action
		}

	case tea.MouseActionMotion:
		if h.dragging {
			action.Type = ActionDrag
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			return action
		}
		// Hover fires on every motion, with a nil region on miss so
		// components can clear hover state.
		action.Type = ActionHover
		action.Region = h.HitMap.Test(msg.X, msg.Y)
		return action

	case tea.MouseActionRelease:
		if h.dragging {
			action.Type = ActionDragEnd
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			h.EndDrag()
			return action
		}
	}

	return action
}
