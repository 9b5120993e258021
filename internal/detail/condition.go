package detail

// ConditionPanel stands in for the search condition editor that shares
// screen space with the detail view. The detail view never renders it; it
// only forces the panel hidden when a test takes over the page.
type ConditionPanel struct {
	visible bool
}

func NewConditionPanel() *ConditionPanel {
	return &ConditionPanel{visible: true}
}

func (c *ConditionPanel) SetVisible(visible bool) {
	c.visible = visible
}

func (c *ConditionPanel) Visible() bool {
	return c.visible
}
