package generator

import (
	"fmt"
	"math"
	"time"
)

// uidRoot is the organisational root for generated DICOM UIDs.
const uidRoot = "1.2.840.113619"

// accessionNumber builds an 18-digit RIS accession: the event timestamp
// to the second plus a 4-digit discriminator.
func (e *Engine) accessionNumber(ts time.Time) string {
	return fmt.Sprintf("%s%04d", ts.Format("20060102150405"), e.rng.Intn(10000))
}

// studyInstanceUID builds a DICOM study UID under the organisational
// root: a fixed .2 arc, then 6-, 3- and 13-digit components.
func (e *Engine) studyInstanceUID() string {
	return fmt.Sprintf("%s.2.%d.%d.%d", uidRoot,
		100000+e.rng.Intn(900000), 100+e.rng.Intn(900),
		1000000000000+e.rng.Int63n(9000000000000))
}

// seriesInstanceUID follows the same shape as the study UID.
func (e *Engine) seriesInstanceUID() string {
	return fmt.Sprintf("%s.2.%d.%d.%d", uidRoot,
		100000+e.rng.Intn(900000), 100+e.rng.Intn(900),
		1000000000000+e.rng.Int63n(9000000000000))
}

// hl7MessageID builds the control id stamped into ORU messages.
func (e *Engine) hl7MessageID(ts time.Time) string {
	return fmt.Sprintf("HL7%s%04d", ts.Format("20060102150405"), e.rng.Intn(10000))
}

var internalIPPrefixes = []string{"192.168.1.", "10.0.0.", "172.16.0."}

// internalIP draws an address from the hospital's private ranges.
func (e *Engine) internalIP() string {
	prefix := internalIPPrefixes[e.rng.Intn(len(internalIPPrefixes))]
	return fmt.Sprintf("%s%d", prefix, 1+e.rng.Intn(254))
}

// externalIP draws a routable-looking address for security events.
func (e *Engine) externalIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+e.rng.Intn(223), e.rng.Intn(256), e.rng.Intn(256), 1+e.rng.Intn(254))
}

// vitalSigns fabricates one monitoring-device reading. Temperature is a
// number rounded to one decimal; everything else is an integer.
func (e *Engine) vitalSigns() map[string]interface{} {
	return map[string]interface{}{
		"heart_rate":               60 + e.rng.Intn(41),
		"blood_pressure_systolic":  110 + e.rng.Intn(31),
		"blood_pressure_diastolic": 65 + e.rng.Intn(26),
		"spo2":                     94 + e.rng.Intn(7),
		"respiratory_rate":         12 + e.rng.Intn(9),
		"temperature":              math.Round((36.2+e.rng.Float64()*1.3)*10) / 10,
	}
}
