package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Sink receives diagnostics as they are raised.
type Sink interface {
	Push(Diagnostic)
}

func DriverWrite(err error, frame uint64) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           "driver_write",
		Summary:        "LED driver rejected a frame",
		Detail:         err.Error(),
		LikelyCauses:   []string{"SPI port unplugged", "strip length mismatch"},
		SuggestedFixes: []string{"check the strip wiring", "match strip.length to the hardware"},
		Evidence:       map[string]any{"frame": frame},
	}
}

func UnknownCommand(kind string) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "control_unknown",
		Summary:  "unknown control command",
		Evidence: map[string]any{"type": kind},
	}
}

func LayerMissing(name string) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "layer_missing",
		Summary:  "no layer with that name",
		Evidence: map[string]any{"layer": name},
	}
}

func Rejected(name, what string) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "layer_rejected",
		Summary:  "layer ignored a setting",
		Detail:   what,
		Evidence: map[string]any{"layer": name},
	}
}
