package payloadtype

import "bytes"

// PayloadType represents the detected type of a segment's payload
type PayloadType string

const (
	PayloadTypeUnknown PayloadType = "unknown"
	PayloadTypeText    PayloadType = "text"
	PayloadTypeBinary  PayloadType = "binary"
	PayloadTypePack    PayloadType = "pack"
)

// packSignature starts every pack stream, followed by a 4 byte version.
var packSignature = []byte("PACK")

// Detector analyzes the payload lines of one segment to detect its type
// Note: This is accessed only from a single goroutine,
// so no synchronization is needed
type Detector struct {
	detectedType    PayloadType
	detectionReason string
	detected        bool
	lineCount       int
	maxLines        int
}

// NewDetector creates a new payload type detector
func NewDetector() *Detector {
	return &Detector{
		detectedType: PayloadTypeUnknown,
		maxLines:     16, // Protocol text segments are short; decide early
	}
}

// AnalyzeLine analyzes one payload line and updates detection state
// Returns true if type has been detected (stop calling after this)
func (d *Detector) AnalyzeLine(line []byte) bool {
	if d.detected {
		return true
	}
	d.lineCount++

	// A pack can only start on the first payload line
	if d.lineCount == 1 && isPackStart(line) {
		d.detectedType = PayloadTypePack
		d.detectionReason = "pack signature on first line"
		d.detected = true
		return true
	}

	if isBinaryData(line) {
		d.detectedType = PayloadTypeBinary
		d.detectionReason = "null bytes or high proportion of non-printable characters detected"
		d.detected = true
		return true
	}

	if d.lineCount >= d.maxLines {
		d.detectedType = PayloadTypeText
		d.detectionReason = "no binary content in leading lines"
		d.detected = true
		return true
	}

	return false
}

// Finish settles the type once the segment ended before a decision was made
func (d *Detector) Finish() {
	if d.detected || d.lineCount == 0 {
		return
	}
	d.detectedType = PayloadTypeText
	d.detectionReason = "no binary content in segment"
	d.detected = true
}

// GetDetectedType returns the detected type and reason
func (d *Detector) GetDetectedType() (PayloadType, string) {
	return d.detectedType, d.detectionReason
}

// IsDetected returns true if type has been determined
func (d *Detector) IsDetected() bool {
	return d.detected
}

// Classify returns the type of a single payload line
func Classify(line []byte) PayloadType {
	switch {
	case len(line) == 0:
		return PayloadTypeUnknown
	case isPackStart(line):
		return PayloadTypePack
	case isBinaryData(line):
		return PayloadTypeBinary
	default:
		return PayloadTypeText
	}
}

func isPackStart(line []byte) bool {
	return len(line) >= 8 && bytes.HasPrefix(line, packSignature)
}

// isBinaryData checks if a line contains binary data
func isBinaryData(line []byte) bool {
	if len(line) == 0 {
		return false
	}

	nonPrintableCount := 0
	for _, b := range line {
		// Check for null bytes - definitive indicator of binary data
		if b == 0 {
			return true
		}
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			nonPrintableCount++
		} else if b > 126 && b < 160 {
			// Control characters in extended ASCII
			nonPrintableCount++
		}
	}

	// If more than 30% of bytes are non-printable, consider it binary
	threshold := float64(len(line)) * 0.3
	return float64(nonPrintableCount) > threshold
}
