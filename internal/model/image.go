package model

// Image is an opaque binary attachment together with its MIME type.
// The two halves only exist together: a record either carries an
// Image or it does not.
type Image struct {
	Data        []byte // raw bytes, never decoded
	ContentType string // e.g. image/png
}

// Clone returns a deep copy of the image so callers cannot alias the
// stored byte slice.
func (i *Image) Clone() *Image {
	if i == nil {
		return nil
	}
	data := make([]byte, len(i.Data))
	copy(data, i.Data)
	return &Image{Data: data, ContentType: i.ContentType}
}
