package resolve

import "fmt"

// ResolutionError reports that the directory service knows no address
// mapping for a UUID.
type ResolutionError struct {
	UUID string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not find address mapping for UUID %q", e.UUID)
}

// UnknownVolumeError reports that no metadata service could be found for a
// volume name: either the directory knows no services under that name, or
// none of them carries an mrc role entry.
type UnknownVolumeError struct {
	Volume string
}

func (e *UnknownVolumeError) Error() string {
	return fmt.Sprintf("unknown volume %q", e.Volume)
}
