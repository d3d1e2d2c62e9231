package menu

import (
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
)

// Coordinator owns the single visible menu or modal for the whole view.
// Opening a new one always hides the previous one first, so mutual
// exclusion holds no matter which row triggered it.
type Coordinator struct {
	activeMenu  *Menu
	activeModal *Modal
	modalID     string
	target      noderef.Ref // row that opened the active menu
}

// NewCoordinator creates a coordinator with nothing open.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// OpenMenu shows m as the active context menu. target is the row the
// menu was opened on; views keep that row styled active while it's up.
func (c *Coordinator) OpenMenu(m *Menu, target noderef.Ref) {
	c.HideActive()
	c.activeMenu = m
	c.target = target
}

// OpenModal shows mod as the active dialog. id identifies which dialog
// is open so the update loop can route its actions.
func (c *Coordinator) OpenModal(mod *Modal, id string) {
	c.HideActive()
	mod.Reset()
	c.activeModal = mod
	c.modalID = id
}

// HideActive dismisses the open menu or modal, if any.
func (c *Coordinator) HideActive() {
	c.activeMenu = nil
	c.activeModal = nil
	c.modalID = ""
	c.target = noderef.Ref{}
}

// Active reports whether a menu or modal is open.
func (c *Coordinator) Active() bool {
	return c.activeMenu != nil || c.activeModal != nil
}

// ActiveMenu returns the open context menu, or nil.
func (c *Coordinator) ActiveMenu() *Menu {
	return c.activeMenu
}

// ActiveModal returns the open dialog, or nil.
func (c *Coordinator) ActiveModal() *Modal {
	return c.activeModal
}

// ModalID returns the identity passed to OpenModal, or "".
func (c *Coordinator) ModalID() string {
	return c.modalID
}

// MenuTarget returns the ref of the row that opened the active menu.
// Zero when no menu is open.
func (c *Coordinator) MenuTarget() noderef.Ref {
	return c.target
}
