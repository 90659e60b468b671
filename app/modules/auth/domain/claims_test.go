package authdomain

import (
	"testing"
	"time"
)

func TestClaims_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "not expired (future)",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "expired (past)",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
		{
			name:      "expired (just now)",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{
				ExpiresAt: tt.expiresAt,
			}
			if got := c.IsExpired(); got != tt.want {
				t.Errorf("Claims.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRole_Allows(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleAdmin, RoleUploader, true},
		{RoleUploader, RoleUploader, true},
		{RoleViewer, RoleUploader, false},
		{RoleUploader, RoleAdmin, false},
		{Role("root"), RoleViewer, false},
		{Role(""), Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Allows(tt.required); got != tt.want {
			t.Errorf("Role(%q).Allows(%q) = %v, want %v", tt.role, tt.required, got, tt.want)
		}
	}
}
