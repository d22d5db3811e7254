package validator

import (
	"strings"
	"testing"
)

// TestConfigContract checks that the #Config definition rejects unknown keys
// and bad values while accepting partial documents.
func TestConfigContract(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
	}{
		{
			name:    "empty_document",
			data:    map[string]interface{}{},
			wantErr: false,
		},
		{
			name: "full_document",
			data: map[string]interface{}{
				"files":   []interface{}{"**/*.scss"},
				"exclude": []interface{}{"vendor/**"},
				"lint": map[string]interface{}{
					"rules":          map[string]interface{}{"paint-color": "error", "paint-units": "off"},
					"ignorePatterns": []interface{}{"*.min.css"},
					"ignoreRegions":  true,
				},
				"ruleOptions": map[string]interface{}{
					"paint-color": map[string]interface{}{"allowedFunctions": []interface{}{"color"}},
					"paint-units": map[string]interface{}{"allowedFunctions": []interface{}{}, "minPixels": 4},
				},
				"analysis": map[string]interface{}{
					"maxParallelFiles": 8,
					"cache":            map[string]interface{}{"enabled": false, "dir": "/tmp/cache"},
				},
			},
			wantErr: false,
		},
		{
			name:    "unknown_top_level_key",
			data:    map[string]interface{}{"libraries": map[string]interface{}{}},
			wantErr: true,
		},
		{
			name: "unknown_rule",
			data: map[string]interface{}{
				"lint": map[string]interface{}{"rules": map[string]interface{}{"paint-colour": "error"}},
			},
			wantErr: true,
		},
		{
			name: "bad_severity",
			data: map[string]interface{}{
				"lint": map[string]interface{}{"rules": map[string]interface{}{"paint-units": "fatal"}},
			},
			wantErr: true,
		},
		{
			name: "min_pixels_not_int",
			data: map[string]interface{}{
				"ruleOptions": map[string]interface{}{"paint-units": map[string]interface{}{"minPixels": "10"}},
			},
			wantErr: true,
		},
		{
			name: "negative_parallelism",
			data: map[string]interface{}{
				"analysis": map[string]interface{}{"maxParallelFiles": -1},
			},
			wantErr: true,
		},
		{
			name: "empty_function_name",
			data: map[string]interface{}{
				"ruleOptions": map[string]interface{}{"paint-color": map[string]interface{}{"allowedFunctions": []interface{}{""}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	if err := v.ValidateJSON([]byte(`{"files": ["*.scss"]}`)); err != nil {
		t.Fatalf("expected valid JSON config, got %v", err)
	}
	if err := v.ValidateJSON([]byte(`{"files": "*.scss"}`)); err == nil {
		t.Fatalf("expected error for non-list files")
	}
	if err := v.ValidateJSON([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestValidationErrors(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	if errs := v.ValidationErrors(map[string]interface{}{}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := v.ValidationErrors(map[string]interface{}{"standard": "2008"})
	if len(errs) == 0 {
		t.Fatalf("expected errors for unknown key")
	}
	if !strings.Contains(strings.Join(errs, "\n"), "standard") {
		t.Fatalf("expected error to name the field, got %v", errs)
	}
}

func TestOutputContract(t *testing.T) {
	v, err := NewOutputValidator()
	if err != nil {
		t.Fatalf("Failed to create output validator: %v", err)
	}

	issue := map[string]interface{}{
		"rule":     "paint-units",
		"severity": "warning",
		"message":  "Use rem(16px) or an existing gutter($size) value instead of 16px.",
		"location": map[string]interface{}{"file": "a.scss", "line": 2, "column": 10},
	}
	summary := map[string]interface{}{
		"totalViolations": 1, "errors": 0, "warnings": 1, "info": 0, "files": 1, "cachedFiles": 0,
	}
	valid := map[string]interface{}{
		"issues":  []interface{}{issue},
		"summary": summary,
		"files":   []interface{}{map[string]interface{}{"path": "a.scss", "issues": 1, "cached": false}},
	}
	if err := v.Validate(valid); err != nil {
		t.Fatalf("expected valid output, got %v", err)
	}

	nullIssues := map[string]interface{}{
		"issues":  nil,
		"summary": summary,
		"files":   []interface{}{},
	}
	if err := v.Validate(nullIssues); err == nil {
		t.Fatalf("expected error for null issues")
	}

	badIssue := map[string]interface{}{
		"rule":     "paint-units",
		"severity": "off",
		"message":  "x",
		"location": map[string]interface{}{"file": "a.scss", "line": 0, "column": 1},
	}
	invalid := map[string]interface{}{
		"issues":  []interface{}{badIssue},
		"summary": summary,
		"files":   []interface{}{},
	}
	if err := v.Validate(invalid); err == nil {
		t.Fatalf("expected error for bad severity and line")
	}
}
