package detail

// notifyKind selects the banner style.
type notifyKind int

const (
	notifyInfo notifyKind = iota
	notifyError
)

// NotifyBar is the shared message banner the detail view writes into. The
// owner decides where it renders; the view only sets and clears content.
type NotifyBar struct {
	message string
	kind    notifyKind
}

func NewNotifyBar() *NotifyBar {
	return &NotifyBar{}
}

func (n *NotifyBar) Info(message string) {
	n.message = message
	n.kind = notifyInfo
}

func (n *NotifyBar) Error(message string) {
	n.message = message
	n.kind = notifyError
}

func (n *NotifyBar) Clear() {
	n.message = ""
	n.kind = notifyInfo
}

func (n *NotifyBar) Message() string {
	return n.message
}

func (n *NotifyBar) lines(width int, styles Styles) []string {
	if n.message == "" {
		return nil
	}
	style := styles.Faint
	if n.kind == notifyError {
		style = styles.Error
	}
	return []string{style.Render(truncate(n.message, width))}
}
