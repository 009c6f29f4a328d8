package domain

const (
	ToastDefault     = "default"
	ToastDestructive = "destructive"
)

// Toast is a fire-and-forget notification shown on the next rendered view.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}
