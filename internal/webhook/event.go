package webhook

import (
	"math"
	"strings"
)

// Event is a verified provider callback, normalized for dispatch. It
// is ephemeral: received, dispatched, discarded.
type Event struct {
	Provider   string
	Type       string
	Reference  string
	Status     string
	AmountKobo int64
	SubjectID  string
}

// koboFromNaira converts a float naira wire amount to kobo, rounding
// so that values like 4999.99 land on 499999 rather than 499998.
func koboFromNaira(naira float64) int64 {
	return int64(math.Round(naira * 100))
}

// ParseRequestID decomposes a VTU request identifier. Request ids are
// fields joined by underscores with the subject id as the trailing
// segment, e.g. "airtime_20240901_<user-id>". The full id is the
// transaction reference.
func ParseRequestID(requestID string) (reference string, subjectID string) {
	reference = requestID
	if i := strings.LastIndex(requestID, "_"); i >= 0 && i < len(requestID)-1 {
		subjectID = requestID[i+1:]
	}
	return reference, subjectID
}
