package board

// Variant is the visual weight of a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient, dismissable notification.
type Toast struct {
	Title       string
	Description string
	Variant     Variant
}

// IsError reports whether the toast reports a failure.
func (t Toast) IsError() bool {
	return t.Variant == VariantDestructive
}

func (t Toast) String() string {
	return t.Title + ": " + t.Description
}

// Notifier receives toasts from controllers.
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

// Notify implements Notifier.
func (f NotifierFunc) Notify(t Toast) { f(t) }

func success(desc string) Toast {
	return Toast{Title: "Success", Description: desc, Variant: VariantDefault}
}

func failure(desc string) Toast {
	return Toast{Title: "Error", Description: desc, Variant: VariantDestructive}
}

// Fixed toast descriptions.
const (
	MsgFetchFailed         = "Failed to fetch notes"
	MsgFetchArchivedFailed = "Failed to fetch archived notes"
	MsgCreated             = "Note created"
	MsgUpdated             = "Note updated"
	MsgSaveFailed          = "Failed to save note"
	MsgPinFailed           = "Failed to pin note"
	MsgArchived            = "Note archived"
	MsgUnarchived          = "Note unarchived"
	MsgArchiveFailed       = "Failed to archive note"
	MsgUnarchiveFailed     = "Failed to unarchive note"
	MsgDeleted             = "Note deleted"
	MsgDeletedPermanently  = "Note deleted permanently"
	MsgDeleteFailed        = "Failed to delete note"
	MsgColorFailed         = "Failed to change color"
)
