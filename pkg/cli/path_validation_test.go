package cli

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid path",
			input:   "/status",
			wantErr: false,
		},
		{
			name:    "nested path with query-safe characters",
			input:   "/domains/example.com/records",
			wantErr: false,
		},
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
			errMsg:  "path is empty",
		},
		{
			name:    "missing leading slash",
			input:   "status",
			wantErr: true,
			errMsg:  `path "status" must start with '/'`,
		},
		{
			name:    "path traversal attempt",
			input:   "/../../etc/passwd",
			wantErr: true,
			errMsg:  `path "/../../etc/passwd" must not contain '..'`,
		},
		{
			name:    "embedded whitespace",
			input:   "/sta tus",
			wantErr: true,
			errMsg:  `path "/sta tus" must not contain whitespace`,
		},
		{
			name:    "control character",
			input:   "/status\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && err.Error() != tt.errMsg {
				t.Errorf("ValidatePath() error message = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	if err := ValidatePaths([]string{"/status", "/domains"}); err != nil {
		t.Errorf("ValidatePaths() unexpected error: %v", err)
	}
	if err := ValidatePaths(nil); err == nil {
		t.Error("ValidatePaths() should reject an empty list")
	}
	if err := ValidatePaths([]string{"/ok", "bad"}); err == nil {
		t.Error("ValidatePaths() should reject a list containing an invalid path")
	}
}
