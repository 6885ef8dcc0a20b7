package policy

import "testing"

func TestRegistryLoadsEmbeddedPolicy(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if r.MaxUploadBytes() <= 0 {
		t.Errorf("MaxUploadBytes() = %d, want positive", r.MaxUploadBytes())
	}
	if len(r.AllowedMIMETypes()) == 0 {
		t.Error("expected at least one allowed MIME type")
	}
}

func TestIsAllowedMIME(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		mime string
		want bool
	}{
		{"application/pdf", true},
		{"APPLICATION/PDF", true},
		{"text/plain", true},
		{"text/plain; charset=utf-8", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"video/mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := r.IsAllowedMIME(tt.mime); got != tt.want {
				t.Errorf("IsAllowedMIME(%q) = %v, want %v", tt.mime, got, tt.want)
			}
		})
	}
}

func TestSetMaxUploadBytes(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	r.SetMaxUploadBytes(1234)
	if r.MaxUploadBytes() != 1234 {
		t.Errorf("MaxUploadBytes() = %d after override, want 1234", r.MaxUploadBytes())
	}

	// Non-positive values are ignored
	r.SetMaxUploadBytes(0)
	if r.MaxUploadBytes() != 1234 {
		t.Errorf("zero override changed the cap to %d", r.MaxUploadBytes())
	}
	r.SetMaxUploadBytes(-5)
	if r.MaxUploadBytes() != 1234 {
		t.Errorf("negative override changed the cap to %d", r.MaxUploadBytes())
	}
}
