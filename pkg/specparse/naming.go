package specparse

import "strings"

const (
	// TypePrefix precedes the snake_case name in characteristic type identifiers.
	TypePrefix = "org.bluetooth.characteristic."

	// Ext is the file extension of characteristic documents.
	Ext = ".yaml"
)

// FileName converts "Heart Rate Measurement" to "heart_rate_measurement.yaml".
// Hyphens and dashes separate words, a "_characteristic" suffix is dropped and
// the Magnetic Flux Density names keep their capitalised spelling.
func FileName(name string) string {
	return stem(name) + Ext
}

// TypeName converts "Heart Rate Measurement" to
// "org.bluetooth.characteristic.heart_rate_measurement".
func TypeName(name string) string {
	return TypePrefix + stem(name)
}

// ReferenceName converts "org.bluetooth.characteristic.date_time" to
// "Date Time". Anything without the prefix is returned trimmed.
func ReferenceName(ref string) string {
	ref = strings.TrimSpace(ref)
	rest, ok := strings.CutPrefix(ref, TypePrefix)
	if !ok {
		return ref
	}
	words := strings.Split(rest, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func stem(name string) string {
	magnetic := strings.Contains(name, "Magnetic Flux")
	name = strings.NewReplacer("-", " ", "–", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		w = strings.ToLower(w)
		if magnetic {
			w = strings.ReplaceAll(w, "magnetic", "Magnetic")
		}
		words[i] = w
	}
	s := strings.Join(words, "_")
	if magnetic {
		s = strings.NewReplacer("3d", "3D", "2d", "2D").Replace(s)
	}
	return strings.ReplaceAll(s, "_characteristic", "")
}
