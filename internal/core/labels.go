package core

import (
	"strings"
)

const labelSeparator = ") "

// SplitLabel splits a content label such as "Nitrogen dioxide (NO2) ppb" at the
// first ") " into the metric name "Nitrogen dioxide (NO2)" and the display
// label "ppb". A label without the separator is returned as both parts.
func SplitLabel(label string) (metric, display string) {
	i := strings.Index(label, labelSeparator)
	if i < 0 {
		return label, label
	}
	return label[:i+1], label[i+len(labelSeparator):]
}
