package adapters

import (
	"testing"

	"revq/internal/issues"
)

func TestBanditNormalize(t *testing.T) {
	raw := []byte(`{
		"results": [
			{"filename": "src/db.py", "line_number": 12, "col_offset": 4,
			 "test_id": "B608", "test_name": "hardcoded_sql_expressions",
			 "issue_severity": "MEDIUM", "issue_confidence": "MEDIUM",
			 "issue_text": "Possible SQL injection vector through string-based query construction."},
			{"filename": "src/net.py", "line_number": 30, "col_offset": 0,
			 "test_id": "B602", "test_name": "subprocess_popen_with_shell_equals_true",
			 "issue_severity": "HIGH", "issue_confidence": "HIGH",
			 "issue_text": "subprocess call with shell=True identified."}
		]
	}`)

	adapter := NewBanditAdapter()
	got, err := adapter.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Normalize() returned %d issues, want 2", len(got))
	}

	for _, iss := range got {
		if iss.Category != issues.CategorySecurity {
			t.Errorf("bandit finding %s categorized as %s, want security", iss.Code, iss.Category)
		}
	}
	if got[0].Severity != issues.SeverityMajor {
		t.Errorf("MEDIUM/MEDIUM severity = %s, want major", got[0].Severity)
	}
	if got[1].Severity != issues.SeverityCritical {
		t.Errorf("HIGH/HIGH severity = %s, want critical", got[1].Severity)
	}
	if got[1].Message != "subprocess call with shell=True identified. (subprocess_popen_with_shell_equals_true)" {
		t.Errorf("message = %q, want test name appended", got[1].Message)
	}
}

func TestBanditSeverityMatrix(t *testing.T) {
	tests := []struct {
		name       string
		severity   string
		confidence string
		want       issues.Severity
	}{
		{"high high is critical", "HIGH", "HIGH", issues.SeverityCritical},
		{"high medium discounts to major", "HIGH", "MEDIUM", issues.SeverityMajor},
		{"high low discounts to major", "HIGH", "LOW", issues.SeverityMajor},
		{"medium high stays major", "MEDIUM", "HIGH", issues.SeverityMajor},
		{"medium low discounts to minor", "MEDIUM", "LOW", issues.SeverityMinor},
		{"low high stays minor", "LOW", "HIGH", issues.SeverityMinor},
		{"low low is info", "LOW", "LOW", issues.SeverityInfo},
		{"lowercase input accepted", "high", "high", issues.SeverityCritical},
		{"unknown severity defaults to minor", "UNDEFINED", "HIGH", issues.SeverityMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := banditSeverity(tt.severity, tt.confidence); got != tt.want {
				t.Errorf("banditSeverity(%q, %q) = %s, want %s", tt.severity, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestBanditMalformedPayload(t *testing.T) {
	adapter := NewBanditAdapter()
	got, err := adapter.Normalize([]byte(`not json at all`))
	if err == nil {
		t.Fatal("Normalize() reported no error for an unusable payload")
	}
	if len(got) != 1 || got[0].Code != "parse-error" || got[0].File != "bandit" {
		t.Errorf("expected single synthetic parse-error issue, got %+v", got)
	}
}
