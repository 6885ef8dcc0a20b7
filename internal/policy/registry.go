// Package policy holds the upload acceptance rules: which file types the
// upload endpoint accepts and how large a file may be. Rules ship as an
// embedded YAML file so deployment and code review see them in one place.
package policy

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// AllowedType pairs a file extension with the MIME types accepted for it.
type AllowedType struct {
	Extension string   `yaml:"extension"`
	MIMETypes []string `yaml:"mime_types"`
}

// UploadPolicy is the YAML document shape.
type UploadPolicy struct {
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	AllowedTypes   []AllowedType `yaml:"allowed_types"`
}

// Registry answers upload policy questions.
type Registry struct {
	policy UploadPolicy
	mimes  map[string]string // normalized mime -> extension
	mu     sync.RWMutex
}

// NewRegistry loads the embedded policy file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/upload.yaml")
	if err != nil {
		return nil, fmt.Errorf("read upload policy: %w", err)
	}

	var policy UploadPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("unmarshal upload policy: %w", err)
	}
	if policy.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("upload policy: max_upload_bytes must be positive")
	}

	mimes := make(map[string]string)
	for _, t := range policy.AllowedTypes {
		for _, m := range t.MIMETypes {
			mimes[normalizeMIME(m)] = t.Extension
		}
	}

	return &Registry{policy: policy, mimes: mimes}, nil
}

// MaxUploadBytes returns the size cap for uploaded files.
func (r *Registry) MaxUploadBytes() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy.MaxUploadBytes
}

// SetMaxUploadBytes overrides the embedded size cap (env override).
func (r *Registry) SetMaxUploadBytes(n int64) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	r.policy.MaxUploadBytes = n
	r.mu.Unlock()
}

// IsAllowedMIME reports whether uploads with this content type are accepted.
func (r *Registry) IsAllowedMIME(mime string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mimes[normalizeMIME(mime)]
	return ok
}

// AllowedMIMETypes returns every accepted content type, for error messages.
func (r *Registry) AllowedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.mimes))
	for m := range r.mimes {
		types = append(types, m)
	}
	return types
}

func normalizeMIME(mime string) string {
	// Strip parameters like "; charset=utf-8" and lowercase
	base, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
