package fire

import "testing"

func TestGust_Cooldown(t *testing.T) {
	g := NewGust()
	g.OnBlow()
	if g.Strength != BlowGust {
		t.Fatalf("Strength = %d, want %d", g.Strength, BlowGust)
	}

	for i := 0; i < DefaultCooldownDelay; i++ {
		g.OnFrame()
	}
	if g.Strength != BlowGust {
		t.Errorf("gust decayed during the delay: %d", g.Strength)
	}

	g.OnFrame()
	if want := BlowGust - DefaultCooldownRate; g.Strength != want {
		t.Errorf("after delay Strength = %d, want %d", g.Strength, want)
	}

	for i := 0; i < 100; i++ {
		g.OnFrame()
	}
	if g.Strength != 0 {
		t.Errorf("Strength = %d, want 0", g.Strength)
	}
}

func TestGust_OnBreath(t *testing.T) {
	tests := []struct {
		name      string
		levels    []uint8
		threshold uint8
		want      int
	}{
		{name: "below threshold", levels: []uint8{10, 30}, threshold: 30, want: 0},
		{name: "above threshold", levels: []uint8{70}, threshold: 30, want: 20},
		{name: "accumulates and caps", levels: []uint8{255, 255, 255}, threshold: 30, want: MaxGust},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGust()
			for _, l := range tt.levels {
				g.OnBreath(l, tt.threshold)
			}
			if g.Strength != tt.want {
				t.Errorf("Strength = %d, want %d", g.Strength, tt.want)
			}
		})
	}
}

func TestGust_Reset(t *testing.T) {
	g := NewGust()
	g.OnBlow()
	g.Reset()
	if g.Lean() != 0 || g.FramesSinceBlow != 0 {
		t.Errorf("Reset left gust %+v", g)
	}
}

func TestFlameColor_Ends(t *testing.T) {
	if got := FlameColor(1); got != flamePalette[0] {
		t.Errorf("FlameColor(1) = %v, want core %v", got, flamePalette[0])
	}
	if got := FlameColor(0); got != flamePalette[len(flamePalette)-1] {
		t.Errorf("FlameColor(0) = %v, want tip %v", got, flamePalette[len(flamePalette)-1])
	}
	if got := FlameColor(7); got != flamePalette[0] {
		t.Errorf("FlameColor clamps high heat, got %v", got)
	}
}

func TestRedShift(t *testing.T) {
	base := RGB{255, 160, 0}
	if got := RedShift(base, 0); got != base {
		t.Errorf("zero intensity changed colour: %v", got)
	}

	shifted := RedShift(base, 1)
	if shifted.G >= base.G {
		t.Errorf("red shift should cut green: %v", shifted)
	}
	if shifted.R < 240 {
		t.Errorf("red shift should keep red high: %v", shifted)
	}
}

func TestFlame_LeansInGust(t *testing.T) {
	if c := Flame(0, 0, 0); c.DX != 0 {
		t.Errorf("still flame leaned: %+v", c)
	}
	if c := Flame(0, 0, 1); c.DX != 1 {
		t.Errorf("gusted flame upright: %+v", c)
	}
}

func TestSmoke(t *testing.T) {
	if _, _, ok := Smoke(0, 0); !ok {
		t.Error("fresh smoke should be visible")
	}
	if _, _, ok := Smoke(0, 1); ok {
		t.Error("smoke should clear at age 1")
	}
	fresh, _, _ := Smoke(0, 0)
	old, dy, _ := Smoke(0, 0.9)
	if fresh.Color == old.Color {
		t.Error("smoke should fade")
	}
	if dy != 1 {
		t.Errorf("old smoke dy = %d, want 1", dy)
	}
}
