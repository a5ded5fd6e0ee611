package payloadtype

import (
	"strings"
	"testing"
)

func TestDetector_Binary(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "null byte",
			input: "binary\x00data",
		},
		{
			name:  "many non-printable characters",
			input: "\x01\x02\x03\x04\x05\x06\x07\x08",
		},
		{
			name:  "mixed binary and text (over 30% non-printable)",
			input: "text\x01\x02\x03\x04\x05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			detected := d.AnalyzeLine([]byte(tt.input))

			if !detected {
				t.Error("Expected binary to be detected immediately")
			}

			payloadType, reason := d.GetDetectedType()
			if payloadType != PayloadTypeBinary {
				t.Errorf("Expected PayloadTypeBinary, got %s", payloadType)
			}
			if !strings.Contains(reason, "non-printable") && !strings.Contains(reason, "null") {
				t.Errorf("Expected reason to mention non-printable or null, got: %s", reason)
			}
		})
	}
}

func TestDetector_Pack(t *testing.T) {
	d := NewDetector()
	if !d.AnalyzeLine([]byte("PACK\x00\x00\x00\x02\x00\x00\x00\x03")) {
		t.Fatal("Expected pack to be detected on the first line")
	}
	if payloadType, _ := d.GetDetectedType(); payloadType != PayloadTypePack {
		t.Errorf("Expected PayloadTypePack, got %s", payloadType)
	}
}

func TestDetector_PackOnlyOnFirstLine(t *testing.T) {
	d := NewDetector()
	d.AnalyzeLine([]byte("acknowledgments\n"))
	d.AnalyzeLine([]byte("PACKETS are fun\n"))
	d.Finish()

	if payloadType, _ := d.GetDetectedType(); payloadType != PayloadTypeText {
		t.Errorf("Expected PayloadTypeText, got %s", payloadType)
	}
}

func TestDetector_Text(t *testing.T) {
	d := NewDetector()
	for i := 0; i < 15; i++ {
		if d.AnalyzeLine([]byte("want 0123456789abcdef\n")) {
			t.Fatalf("Detected too early after %d lines", i+1)
		}
	}
	if !d.AnalyzeLine([]byte("done\n")) {
		t.Fatal("Expected text to be detected after max lines")
	}
	if payloadType, _ := d.GetDetectedType(); payloadType != PayloadTypeText {
		t.Errorf("Expected PayloadTypeText, got %s", payloadType)
	}
}

func TestDetector_FinishWithoutLines(t *testing.T) {
	d := NewDetector()
	d.Finish()

	if d.IsDetected() {
		t.Error("Empty segment should stay undetected")
	}
	if payloadType, _ := d.GetDetectedType(); payloadType != PayloadTypeUnknown {
		t.Errorf("Expected PayloadTypeUnknown, got %s", payloadType)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  PayloadType
	}{
		{"", PayloadTypeUnknown},
		{"version 2\n", PayloadTypeText},
		{"PACK\x00\x00\x00\x02", PayloadTypePack},
		{"PACK", PayloadTypeText},
		{"\x00\x01\x02", PayloadTypeBinary},
	}

	for _, tt := range tests {
		if got := Classify([]byte(tt.input)); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
