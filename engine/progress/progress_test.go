package progress

import (
	"testing"

	"github.com/mwynn/realmforge/types"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name       string
		experience int
		want       int
	}{
		{"zero xp", 0, 1},
		{"just under a level", 999, 1},
		{"exact threshold", 1000, 2},
		{"mid second level", 1500, 2},
		{"several levels", 4200, 5},
		{"negative clamps to level 1", -50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.experience, DefaultXPPerLevel); got != tt.want {
				t.Errorf("Level(%d) = %d, want %d", tt.experience, got, tt.want)
			}
		})
	}
}

func TestLevel_CustomCurve(t *testing.T) {
	if got := Level(500, 250); got != 3 {
		t.Errorf("Level(500, 250) = %d, want 3", got)
	}
	if got := Level(500, 0); got != 1 {
		t.Errorf("expected bad curve to clamp to level 1, got %d", got)
	}
}

func TestGain_SingleLevel(t *testing.T) {
	p := types.Player{Level: 1, Experience: 950}

	p, gained := Gain(p, 100, DefaultXPPerLevel)

	if p.Experience != 1050 {
		t.Errorf("expected 1050 xp, got %d", p.Experience)
	}
	if p.Level != 2 || gained != 1 {
		t.Errorf("expected level 2 with 1 gained, got level %d gained %d", p.Level, gained)
	}
	if p.SkillPoints != 1 {
		t.Errorf("expected 1 skill point, got %d", p.SkillPoints)
	}
}

func TestGain_MultiLevelGrantsPointPerLevel(t *testing.T) {
	p := types.Player{Level: 1, Experience: 0, SkillPoints: 2}

	p, gained := Gain(p, 3200, DefaultXPPerLevel)

	if p.Level != 4 || gained != 3 {
		t.Errorf("expected level 4 with 3 gained, got level %d gained %d", p.Level, gained)
	}
	if p.SkillPoints != 5 {
		t.Errorf("expected skill points 5, got %d", p.SkillPoints)
	}
}

func TestGain_NoCrossing(t *testing.T) {
	p := types.Player{Level: 3, Experience: 2100}

	p, gained := Gain(p, 400, DefaultXPPerLevel)

	if p.Level != 3 || gained != 0 || p.SkillPoints != 0 {
		t.Errorf("expected no level change, got %+v gained %d", p, gained)
	}
}

func TestGain_NonPositiveAmountIgnored(t *testing.T) {
	p := types.Player{Level: 2, Experience: 1500}

	got, gained := Gain(p, 0, DefaultXPPerLevel)
	if got != p || gained != 0 {
		t.Errorf("expected player unchanged for zero amount, got %+v", got)
	}

	got, gained = Gain(p, -100, DefaultXPPerLevel)
	if got != p || gained != 0 {
		t.Errorf("expected player unchanged for negative amount, got %+v", got)
	}
}
