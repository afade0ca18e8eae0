package model

type StreamFragmentMsg struct {
	StreamID string
	Fragment string
}

type StreamDoneMsg struct {
	StreamID string
}

type StreamErrorMsg struct {
	StreamID string
	Err      error
}

type DrainTickMsg struct {
	StreamID string
}

type ReassuranceTickMsg struct {
	StreamID string
	Pick     int
}

type MarkdownRenderedMsg struct {
	MessageID string
	Rendered  string
}

type PDFExportedMsg struct {
	Path string
	Err  error
}

type PreferencesSavedMsg struct {
	Err error
}

type ClipboardCopiedMsg struct {
	What string
	Err  error
}

type FlashTickMsg struct{}
