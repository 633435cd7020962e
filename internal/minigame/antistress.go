package minigame

// Antistress tuning.
const (
	AntistressDuration  = 150.0 // seconds
	BubbleSpawnInterval = 1.0
	BubbleRiseSpeed     = 60.0 // units per second, upward
	BubbleMaxDrift      = 5.0  // horizontal units per second, either way
	BubbleMinSize       = 40.0
	BubbleMaxSize       = 60.0

	popDelay = 0.2
)

// antistress: bubbles float up from the bottom; pop them to relax. There is
// no accuracy metric, so finishing always earns the large reward.
type antistress struct {
	area      Size
	nextSpawn float64
	escaped   int // bubbles that left through the top; not a score
}

func (g *antistress) start(s *Session) {
	s.remaining = AntistressDuration
	g.nextSpawn = 0
	g.escaped = 0
}

func (g *antistress) tick(s *Session, dt float64) {
	if s.countdown(dt) {
		s.finish()
		return
	}

	g.move(s, dt)

	g.nextSpawn -= dt
	if g.nextSpawn <= timeEpsilon && len(s.targets) < MaxTargets {
		g.spawnBubble(s)
		g.nextSpawn = BubbleSpawnInterval
	}
}

// move drifts every bubble and drops the ones that left through the top.
// Popping bubbles hold still until they are removed.
func (g *antistress) move(s *Session, dt float64) {
	kept := s.targets[:0]
	for _, b := range s.targets {
		if !b.Popping {
			b.Y -= BubbleRiseSpeed * dt
			b.X = min(max(b.X+b.VX*dt, 0), g.area.Width)
			if b.Y < b.Size {
				g.escaped++
				continue
			}
		}
		kept = append(kept, b)
	}
	s.targets = kept
}

func (g *antistress) spawnBubble(s *Session) {
	size := s.between(BubbleMinSize, BubbleMaxSize)
	pad := size / 2
	s.spawn(Target{
		X:     s.between(pad, g.area.Width-pad),
		Y:     g.area.Height,
		Size:  size,
		Scale: 1,
		VX:    s.between(-BubbleMaxDrift, BubbleMaxDrift),
	})
}

func (g *antistress) input(s *Session, in Input) {
	if in.Kind != InputTap {
		return
	}
	b := s.target(in.Target)
	if b == nil || b.Popping {
		return
	}
	b.Popping = true
	s.score.Popped++
	s.feedback.PlayTapFeedback()

	id := b.ID
	s.after(id, popDelay, func() {
		s.remove(id)
		if len(s.targets) < MaxTargets {
			g.spawnBubble(s)
		}
	})
}

func (g *antistress) tier(*Session) Tier { return TierLarge }

func (g *antistress) snapshot(snap *Snapshot) {
	snap.Escaped = g.escaped
}
