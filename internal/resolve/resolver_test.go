package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/dfsclient/internal/core/domain"
)

func TestResolveVolume(t *testing.T) {
	d := &fakeDir{
		mappings: map[string][]domain.AddressMapping{
			"srv1": {srv1Mapping()},
		},
		services: map[string][]domain.ServiceRecord{
			"vol0": {{
				UUID: "vol-svc",
				Data: []domain.RoleEntry{
					{Role: "free_space", Value: "1024"},
					{Role: domain.RoleMRC, Value: "srv1"},
				},
			}},
		},
	}
	resolver := NewVolumeResolver(d, NewCache(d, nil), nil)

	endpoint, err := resolver.ResolveVolume(context.Background(), "vol0")
	if err != nil {
		t.Fatalf("ResolveVolume failed: %v", err)
	}
	if endpoint != "tcp://10.0.0.5:14" {
		t.Errorf("expected tcp://10.0.0.5:14, got %s", endpoint)
	}
}

func TestResolveVolume_Unknown(t *testing.T) {
	tests := []struct {
		name     string
		services []domain.ServiceRecord
	}{
		{"no services", nil},
		{"no mrc entry", []domain.ServiceRecord{{
			UUID: "vol-svc",
			Data: []domain.RoleEntry{{Role: "osd", Value: "srv2"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDir{services: map[string][]domain.ServiceRecord{"vol0": tt.services}}
			resolver := NewVolumeResolver(d, NewCache(d, nil), nil)

			_, err := resolver.ResolveVolume(context.Background(), "vol0")
			var uve *UnknownVolumeError
			if !errors.As(err, &uve) {
				t.Fatalf("expected UnknownVolumeError, got %T: %v", err, err)
			}
			if uve.Volume != "vol0" {
				t.Errorf("expected volume vol0, got %s", uve.Volume)
			}
		})
	}
}

func TestResolveVolume_FirstMRCWins(t *testing.T) {
	d := &fakeDir{
		mappings: map[string][]domain.AddressMapping{
			"primary": {{UUID: "primary", Protocol: "tcp", Address: "10.0.0.1", Port: 14, TTL: 60 * time.Second}},
		},
		services: map[string][]domain.ServiceRecord{
			"vol0": {
				{UUID: "a", Data: []domain.RoleEntry{{Role: "osd", Value: "srv9"}}},
				{UUID: "b", Data: []domain.RoleEntry{
					{Role: domain.RoleMRC, Value: "primary"},
					{Role: domain.RoleMRC, Value: "secondary"},
				}},
			},
		},
	}
	resolver := NewVolumeResolver(d, NewCache(d, nil), nil)

	endpoint, err := resolver.ResolveVolume(context.Background(), "vol0")
	if err != nil {
		t.Fatalf("ResolveVolume failed: %v", err)
	}
	if endpoint != "tcp://10.0.0.1:14" {
		t.Errorf("expected the first mrc entry to win, got %s", endpoint)
	}
}

func TestResolveVolume_MRCWithoutMapping(t *testing.T) {
	d := &fakeDir{
		services: map[string][]domain.ServiceRecord{
			"vol0": {{
				UUID: "vol-svc",
				Data: []domain.RoleEntry{{Role: domain.RoleMRC, Value: "gone"}},
			}},
		},
	}
	resolver := NewVolumeResolver(d, NewCache(d, nil), nil)

	_, err := resolver.ResolveVolume(context.Background(), "vol0")
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError for the mrc UUID, got %T: %v", err, err)
	}
	if re.UUID != "gone" {
		t.Errorf("expected UUID gone, got %s", re.UUID)
	}
}
