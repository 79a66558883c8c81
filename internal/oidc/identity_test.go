package oidc

import "testing"

func TestIdentityFromClaims(t *testing.T) {
	tests := []struct {
		name      string
		claims    map[string]interface{}
		wantName  string
		wantEmail string
	}{
		{
			name: "complete claims",
			claims: map[string]interface{}{
				"name":               "Maria",
				"preferred_username": "maria@autogeral.com",
			},
			wantName:  "Maria",
			wantEmail: "maria@autogeral.com",
		},
		{
			name: "empty name claim falls back to placeholder",
			claims: map[string]interface{}{
				"name":               "",
				"preferred_username": "maria@autogeral.com",
			},
			wantName:  "Usuário",
			wantEmail: "maria@autogeral.com",
		},
		{
			name: "missing preferred_username falls back to email claim",
			claims: map[string]interface{}{
				"name":  "Maria",
				"email": "maria@autogeral.com",
			},
			wantName:  "Maria",
			wantEmail: "maria@autogeral.com",
		},
		{
			name: "empty email claims fall back to placeholder",
			claims: map[string]interface{}{
				"name":               "Maria",
				"preferred_username": "",
				"email":              "",
			},
			wantName:  "Maria",
			wantEmail: "Email não encontrado",
		},
		{
			name:      "no identity claims at all",
			claims:    map[string]interface{}{},
			wantName:  "Usuário",
			wantEmail: "Email não encontrado",
		},
		{
			name: "non-string claim treated as absent",
			claims: map[string]interface{}{
				"name":               42,
				"preferred_username": "maria@autogeral.com",
			},
			wantName:  "Usuário",
			wantEmail: "maria@autogeral.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := identityFromClaims(tt.claims)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Email != tt.wantEmail {
				t.Errorf("Email = %q, want %q", got.Email, tt.wantEmail)
			}
		})
	}
}
