package ui

import "anmi/model"

// Message type aliases - these are defined in the model package
type streamFragmentMsg = model.StreamFragmentMsg
type streamDoneMsg = model.StreamDoneMsg
type streamErrorMsg = model.StreamErrorMsg
type drainTickMsg = model.DrainTickMsg
type reassuranceTickMsg = model.ReassuranceTickMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type pdfExportedMsg = model.PDFExportedMsg
type preferencesSavedMsg = model.PreferencesSavedMsg
type clipboardCopiedMsg = model.ClipboardCopiedMsg
type flashTickMsg = model.FlashTickMsg
