package minigame

// TapTest tuning.
const (
	TapTestDuration   = 15.0 // seconds
	TapTestMinBubbles = 2
	// TapTestLargeTierTaps is the number of taps that earns the large reward.
	TapTestLargeTierTaps = 5

	appearScaleStart  = 0.5
	appearOffsetStart = 10.0
	// The appear animation grows 0.03 and rises 0.5 per 16ms frame.
	appearScaleRate = 0.03 / 0.016
	appearRiseRate  = 0.5 / 0.016
)

// tapTest: bubbles pop up at random spots; tap as many as possible before
// the clock runs out.
type tapTest struct {
	area Rect
}

func (g *tapTest) start(s *Session) {
	s.remaining = TapTestDuration
	g.restock(s)
}

func (g *tapTest) tick(s *Session, dt float64) {
	for i := range s.targets {
		animateAppear(&s.targets[i], dt)
	}

	if s.countdown(dt) {
		s.finish()
	}
}

func (g *tapTest) input(s *Session, in Input) {
	if in.Kind != InputTap || !s.remove(in.Target) {
		return
	}
	s.score.Taps++
	s.feedback.PlayTapFeedback()
	g.restock(s)
}

func (g *tapTest) tier(s *Session) Tier {
	if s.score.Taps >= TapTestLargeTierTaps {
		return TierLarge
	}
	return TierSmall
}

func (g *tapTest) snapshot(*Snapshot) {}

func (g *tapTest) restock(s *Session) {
	for len(s.targets) < TapTestMinBubbles {
		if _, ok := s.spawn(Target{
			X:         s.between(g.area.MinX, g.area.MaxX),
			Y:         s.between(g.area.MinY, g.area.MaxY),
			Scale:     appearScaleStart,
			OffsetY:   appearOffsetStart,
			Appearing: true,
		}); !ok {
			return
		}
	}
}

// animateAppear grows a fresh bubble to full size while lifting it into place.
func animateAppear(t *Target, dt float64) {
	if !t.Appearing {
		return
	}
	t.Scale += appearScaleRate * dt
	t.OffsetY -= appearRiseRate * dt
	if t.Scale >= 1 {
		t.Scale = 1
		t.OffsetY = 0
		t.Appearing = false
	}
}
