package evaluation

import "strings"

// SetStatus returns an UpdateSetter that sets the run's status.
func SetStatus(status Status) UpdateSetter {
	return func(r *Run) error {
		if !status.IsValid() {
			return ErrInvalidStatus
		}
		r.Status = status
		return nil
	}
}

// SetFormats returns an UpdateSetter that records the export formats.
func SetFormats(formats []string) UpdateSetter {
	return func(r *Run) error {
		r.Formats = strings.Join(formats, ",")
		return nil
	}
}

// SetAppCount returns an UpdateSetter that sets the number of evaluated apps.
func SetAppCount(n int) UpdateSetter {
	return func(r *Run) error {
		r.AppCount = n
		return nil
	}
}

// SetError returns an UpdateSetter that records a failure reason.
func SetError(reason string) UpdateSetter {
	return func(r *Run) error {
		r.Error = reason
		return nil
	}
}
