package capture

// AttachmentKind distinguishes photo and movie attachments.
type AttachmentKind int

// Attachment kinds.
const (
	AttachmentPhoto AttachmentKind = iota
	AttachmentMovie
)

// Attachment is a finished capture handed to the consumer for
// post-processing. Photos carry encoded image bytes; movies carry the path
// of the temporary file the recording was finalized to. Each recording gets
// a temporary directory of its own; the consumer owns the file and its
// directory and removes the directory after consumption.
type Attachment struct {
	Kind        AttachmentKind
	Data        []byte
	Path        string
	Orientation Orientation
}
