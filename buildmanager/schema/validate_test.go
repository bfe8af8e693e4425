package schema

import (
	"errors"
	"testing"
)

func validInput() *BuildInput {
	return &BuildInput{
		Name:         "Great Axe Solo Build",
		ActivityType: "Solo PvP",
		CommandAlias: "greataxe-solo",
		Tier:         "T8",
		Equipment: Equipment{
			Weapon: EquipmentPiece{Name: "Great Axe", Tier: "T8"},
		},
	}
}

func TestValidateBuild(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(in *BuildInput)
		wantFields []string
	}{
		{
			name:   "valid build",
			mutate: func(in *BuildInput) {},
		},
		{
			name: "valid with all optional slots",
			mutate: func(in *BuildInput) {
				in.Equipment.OffHand = &EquipmentPiece{Name: "Torch", Tier: "T8"}
				in.Equipment.Head = &EquipmentPiece{Name: "Mercenary Hood", Tier: "T8"}
				in.Equipment.Mount = &EquipmentPiece{Name: "Swiftclaw", Tier: "T8"}
				in.Alternatives = &Alternatives{
					Weapons: []AlternativeItem{{Name: "Halberd", Description: "More range"}},
				}
				in.Tags = []string{"ganking", "solo"}
			},
		},
		{
			name:       "missing name",
			mutate:     func(in *BuildInput) { in.Name = "" },
			wantFields: []string{"name"},
		},
		{
			name:       "missing activity type",
			mutate:     func(in *BuildInput) { in.ActivityType = "" },
			wantFields: []string{"activityType"},
		},
		{
			name:       "missing command alias",
			mutate:     func(in *BuildInput) { in.CommandAlias = "" },
			wantFields: []string{"commandAlias"},
		},
		{
			name:       "uppercase in alias",
			mutate:     func(in *BuildInput) { in.CommandAlias = "GreatAxe" },
			wantFields: []string{"commandAlias"},
		},
		{
			name:       "spaces in alias",
			mutate:     func(in *BuildInput) { in.CommandAlias = "great axe" },
			wantFields: []string{"commandAlias"},
		},
		{
			name:       "missing weapon name",
			mutate:     func(in *BuildInput) { in.Equipment.Weapon.Name = "" },
			wantFields: []string{"equipment.weapon.name"},
		},
		{
			name:       "missing weapon tier",
			mutate:     func(in *BuildInput) { in.Equipment.Weapon.Tier = "" },
			wantFields: []string{"equipment.weapon.tier"},
		},
		{
			name: "missing weapon rejected even when everything else is fine",
			mutate: func(in *BuildInput) {
				in.Equipment.Weapon = EquipmentPiece{}
				in.Equipment.Head = &EquipmentPiece{Name: "Mercenary Hood", Tier: "T8"}
				in.Equipment.Chest = &EquipmentPiece{Name: "Stalker Jacket", Tier: "T8"}
				in.Equipment.Shoes = &EquipmentPiece{Name: "Scholar Sandals", Tier: "T8"}
			},
			wantFields: []string{"equipment.weapon.name", "equipment.weapon.tier"},
		},
		{
			name: "all violations reported at once",
			mutate: func(in *BuildInput) {
				in.Name = ""
				in.ActivityType = ""
				in.CommandAlias = "Bad Alias"
				in.Equipment.Weapon.Name = ""
			},
			wantFields: []string{"name", "activityType", "commandAlias", "equipment.weapon.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			err := ValidateBuild(in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateBuild() unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateBuild() error = %v, want *ValidationError", err)
			}
			details := verr.Details()
			if len(details) != len(tt.wantFields) {
				t.Errorf("ValidateBuild() got %d violations %v, want %d", len(details), details, len(tt.wantFields))
			}
			for _, field := range tt.wantFields {
				if _, ok := details[field]; !ok {
					t.Errorf("ValidateBuild() missing violation for field %q, got %v", field, details)
				}
			}
		})
	}
}

func TestValidateBuildUpdate(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name       string
		upd        *BuildUpdate
		wantFields []string
	}{
		{
			name: "empty partial is valid",
			upd:  &BuildUpdate{},
		},
		{
			name: "tier only",
			upd:  &BuildUpdate{Tier: str("T7")},
		},
		{
			name: "valid alias change",
			upd:  &BuildUpdate{CommandAlias: str("axe-2")},
		},
		{
			name:       "present name must be non-empty",
			upd:        &BuildUpdate{Name: str("")},
			wantFields: []string{"name"},
		},
		{
			name:       "present alias must match pattern",
			upd:        &BuildUpdate{CommandAlias: str("Axe_1")},
			wantFields: []string{"commandAlias"},
		},
		{
			name:       "present activity type must be non-empty",
			upd:        &BuildUpdate{ActivityType: str("")},
			wantFields: []string{"activityType"},
		},
		{
			name:       "replacement equipment still needs a weapon",
			upd:        &BuildUpdate{Equipment: &Equipment{}},
			wantFields: []string{"equipment.weapon.name", "equipment.weapon.tier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuildUpdate(tt.upd)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateBuildUpdate() unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateBuildUpdate() error = %v, want *ValidationError", err)
			}
			details := verr.Details()
			for _, field := range tt.wantFields {
				if _, ok := details[field]; !ok {
					t.Errorf("ValidateBuildUpdate() missing violation for field %q, got %v", field, details)
				}
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	in := validInput()
	in.Tier = ""
	in.ApplyDefaults()
	if in.Tier != DefaultTier {
		t.Errorf("ApplyDefaults() tier = %q, want %q", in.Tier, DefaultTier)
	}

	in.Tier = "T5"
	in.ApplyDefaults()
	if in.Tier != "T5" {
		t.Errorf("ApplyDefaults() overwrote explicit tier, got %q", in.Tier)
	}
}
