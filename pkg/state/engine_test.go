package state

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPool() []deck.Card {
	return []deck.Card{
		{ID: "q1", Prompt: "1 + 1?", Options: []string{"2", "3", "4", "5"}, AnswerIndex: 0},
		{ID: "q2", Prompt: "2 * 3?", Options: []string{"5", "6", "7", "8"}, AnswerIndex: 1},
		{ID: "q3", Prompt: "9 - 4?", Options: []string{"3", "4", "5", "6"}, AnswerIndex: 2},
		{ID: "q4", Prompt: "8 / 2?", Options: []string{"1", "2", "3", "4"}, AnswerIndex: 3},
	}
}

func newTestEngine(t *testing.T, rules Rules) *Engine {
	t.Helper()
	e, err := NewSession(rules, testPool(), dice.NewSource(1), quietLogger())
	require.NoError(t, err)
	return e
}

// loadRevolver replaces the random revolver with a known one.
func loadRevolver(t *testing.T, e *Engine, bullet, cylinder int) {
	t.Helper()
	r, err := revolver.Load(revolver.DefaultChambers, bullet, cylinder)
	require.NoError(t, err)
	e.State().Revolver = r
}

func correctIndex(e *Engine) int {
	return e.State().CurrentCard.AnswerIndex
}

func wrongIndex(e *Engine) int {
	c := e.State().CurrentCard
	return (c.AnswerIndex + 1) % len(c.Options)
}

// toMonsterQuestion plays a quiet player turn and hands the table to the monster.
func toMonsterQuestion(t *testing.T, e *Engine) {
	t.Helper()
	require.True(t, e.Start())
	require.True(t, e.Advance())
	require.True(t, e.Answer(correctIndex(e)))
	require.True(t, e.Decide(actor.Skip))
	require.True(t, e.Advance())
	require.Equal(t, PhaseQuestion, e.State().Phase)
	require.Equal(t, actor.Monster, e.State().Turn)
}

type snapshot struct {
	gs         GameState
	rev        revolver.Revolver
	remaining  int
	reshuffles int
}

func snap(e *Engine) snapshot {
	gs := *e.State()
	s := snapshot{rev: *gs.Revolver, remaining: gs.Deck.Remaining(), reshuffles: gs.Deck.Reshuffles()}
	gs.Revolver = nil
	gs.Deck = nil
	s.gs = gs
	return s
}

func TestNewGameState(t *testing.T) {
	gs, err := NewGameState(DefaultRules(), testPool(), dice.NewSource(3))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, gs.ID)
	assert.Equal(t, actor.Player, gs.Turn)
	assert.True(t, gs.PlayerAlive)
	assert.True(t, gs.MonsterAlive)
	assert.Equal(t, PhaseIdle, gs.Phase)
	assert.Equal(t, 1, gs.Round)
	assert.Nil(t, gs.CurrentCard)
	assert.Equal(t, 6, gs.Revolver.Chambers)
	assert.False(t, gs.Revolver.Fired)
	assert.Equal(t, 0.6, gs.AI.CorrectChance)
	assert.Equal(t, 0.8, gs.AI.ShootChanceOnCorrect)

	t.Run("rejects invalid rules", func(t *testing.T) {
		rules := DefaultRules()
		rules.AI.CorrectChance = 1.5
		_, err := NewGameState(rules, testPool(), dice.NewSource(3))
		assert.True(t, errors.Is(err, ErrInvalidRules))

		rules = DefaultRules()
		rules.Chambers = 0
		_, err = NewGameState(rules, testPool(), dice.NewSource(3))
		assert.True(t, errors.Is(err, ErrInvalidRules))
	})

	t.Run("rejects empty pool", func(t *testing.T) {
		_, err := NewGameState(DefaultRules(), nil, dice.NewSource(3))
		assert.True(t, errors.Is(err, deck.ErrEmptyPool))
	})

	t.Run("sessions never share identity", func(t *testing.T) {
		other, err := NewGameState(DefaultRules(), testPool(), dice.NewSource(3))
		require.NoError(t, err)
		assert.NotEqual(t, gs.ID, other.ID)
	})
}

func TestStartAndOpening(t *testing.T) {
	e := newTestEngine(t, DefaultRules())

	require.True(t, e.Start())
	f := e.Frame()
	assert.Equal(t, PhaseMessage, f.Phase)
	assert.Equal(t, actor.Player, f.Turn)
	assert.Equal(t, EventIntro, f.Event)
	assert.Contains(t, f.Message, "You go first.")
	assert.Equal(t, 1, f.Round)

	assert.False(t, e.Start(), "second start must be ignored")

	require.True(t, e.Advance())
	f = e.Frame()
	assert.Equal(t, PhaseQuestion, f.Phase)
	assert.Equal(t, actor.Player, f.Turn, "player takes the first question")
	assert.NotNil(t, f.Card)
	assert.Empty(t, f.Message)
	assert.False(t, f.AwaitingMonster)
	assert.Equal(t, 1, f.Round, "entering a phase never counts as a round")
}

func TestMismatchedActionsAreNoOps(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	loadRevolver(t, e, 5, 0)

	check := func(name string, action func() bool) {
		t.Helper()
		before := snap(e)
		assert.False(t, action(), "%s should be ignored", name)
		assert.Equal(t, before, snap(e), "%s changed the game state", name)
	}

	// IDLE
	check("advance while idle", e.Advance)
	check("answer while idle", func() bool { return e.Answer(0) })
	check("decide while idle", func() bool { return e.Decide(actor.Shoot) })
	check("monster while idle", func() bool { return e.ResolveMonsterTurn(e.Session()) })

	// MESSAGE (intro)
	require.True(t, e.Start())
	check("start while in message", e.Start)
	check("answer while in message", func() bool { return e.Answer(0) })
	check("decide while in message", func() bool { return e.Decide(actor.Skip) })
	check("monster while in message", func() bool { return e.ResolveMonsterTurn(e.Session()) })

	// QUESTION, player's turn
	require.True(t, e.Advance())
	check("advance while in question", e.Advance)
	check("decide while in question", func() bool { return e.Decide(actor.Shoot) })
	check("monster on player's turn", func() bool { return e.ResolveMonsterTurn(e.Session()) })
	check("answer out of range", func() bool { return e.Answer(len(e.State().CurrentCard.Options)) })
	check("negative answer", func() bool { return e.Answer(-1) })

	// DECISION
	require.True(t, e.Answer(correctIndex(e)))
	require.Equal(t, PhaseDecision, e.State().Phase)
	check("answer while deciding", func() bool { return e.Answer(correctIndex(e)) })
	check("advance while deciding", e.Advance)
	check("monster while deciding", func() bool { return e.ResolveMonsterTurn(e.Session()) })
	check("unknown decision", func() bool { return e.Decide(actor.Decision("dance")) })

	// QUESTION, monster's turn
	require.True(t, e.Decide(actor.Skip))
	require.True(t, e.Advance())
	require.Equal(t, actor.Monster, e.State().Turn)
	check("player answers on monster's turn", func() bool { return e.Answer(correctIndex(e)) })
	check("decide on monster's turn", func() bool { return e.Decide(actor.Shoot) })
	check("advance on monster's turn", e.Advance)
	check("stale session", func() bool { return e.ResolveMonsterTurn(uuid.New()) })
}

// Scenario A: the hammer starts on the bullet and the player misses the first card.
func TestPlayerWrongAnswerFirstPullKills(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	loadRevolver(t, e, 0, 0)

	require.True(t, e.Start())
	require.True(t, e.Advance())
	require.True(t, e.Answer(wrongIndex(e)))

	gs := e.State()
	assert.Equal(t, PhaseMessage, gs.Phase)
	assert.False(t, gs.PlayerAlive)
	assert.True(t, gs.MonsterAlive)
	assert.Equal(t, 2, gs.Round)
	assert.Equal(t, revolver.Bang, gs.LastShot)
	assert.Contains(t, gs.LastMessage, "BANG.")
	assert.Equal(t, OutcomeLost, gs.Outcome)

	f := e.Frame()
	assert.True(t, f.Over())
	assert.False(t, e.Advance(), "the machine stops once the duel is over")
	assert.Equal(t, PhaseMessage, e.State().Phase)
}

func TestPlayerWrongAnswerClick(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	loadRevolver(t, e, 3, 0)

	require.True(t, e.Start())
	require.True(t, e.Advance())
	require.True(t, e.Answer(wrongIndex(e)))

	gs := e.State()
	assert.True(t, gs.PlayerAlive)
	assert.Equal(t, revolver.NoBang, gs.LastShot)
	assert.Contains(t, gs.LastMessage, "Click... empty.")
	assert.Equal(t, 1, gs.Revolver.CylinderIndex)
	assert.Equal(t, OutcomeNone, gs.Outcome)

	require.True(t, e.Advance())
	assert.Equal(t, actor.Monster, e.State().Turn, "turn passes after a resolved action")
	assert.True(t, e.Frame().AwaitingMonster)
}

// Scenario B: six correct answers and six skips never touch the revolver.
func TestSkippingNeverFires(t *testing.T) {
	rules := DefaultRules()
	rules.AI = actor.AIPolicy{CorrectChance: 1, ShootChanceOnCorrect: 0}
	e := newTestEngine(t, rules)
	loadRevolver(t, e, 5, 0)

	require.True(t, e.Start())
	require.True(t, e.Advance())

	for i := range 6 {
		require.Equal(t, actor.Player, e.State().Turn, "cycle %d", i)
		require.True(t, e.Answer(correctIndex(e)))

		round := e.State().Round
		require.True(t, e.Decide(actor.Skip))
		assert.Equal(t, round+1, e.State().Round, "skip counts exactly one round")
		assert.Equal(t, EventPlayerSkip, e.State().LastEvent)

		require.True(t, e.Advance())
		require.True(t, e.ResolveMonsterTurn(e.Session()))
		assert.Equal(t, EventMonsterSkip, e.State().LastEvent)
		require.True(t, e.Advance())
	}

	gs := e.State()
	assert.Equal(t, 13, gs.Round, "six player skips and six monster skips")
	assert.True(t, gs.PlayerAlive)
	assert.True(t, gs.MonsterAlive)
	assert.Equal(t, OutcomeNone, gs.Outcome)
	assert.Equal(t, 0, gs.Revolver.CylinderIndex, "no trigger was pulled")
}

// Scenario C: a monster that never answers correctly always fires at itself.
func TestMonsterNeverCorrectShootsItself(t *testing.T) {
	rules := DefaultRules()
	rules.AI.CorrectChance = 0

	t.Run("dies when the hammer is on the bullet", func(t *testing.T) {
		e := newTestEngine(t, rules)
		toMonsterQuestion(t, e)
		loadRevolver(t, e, 2, 2)

		require.True(t, e.ResolveMonsterTurn(e.Session()))
		gs := e.State()
		assert.False(t, gs.MonsterAlive)
		assert.True(t, gs.PlayerAlive)
		assert.Equal(t, EventMonsterWrong, gs.LastEvent)
		assert.Equal(t, OutcomeWon, gs.Outcome)
		assert.Contains(t, gs.LastMessage, "forced to shoot itself")
		assert.False(t, e.Advance())
	})

	t.Run("survives an empty chamber", func(t *testing.T) {
		e := newTestEngine(t, rules)
		toMonsterQuestion(t, e)
		loadRevolver(t, e, 3, 2)

		require.True(t, e.ResolveMonsterTurn(e.Session()))
		gs := e.State()
		assert.True(t, gs.MonsterAlive)
		assert.Equal(t, revolver.NoBang, gs.LastShot)
		assert.Equal(t, 3, gs.Revolver.CylinderIndex)
		assert.Equal(t, PhaseMessage, gs.Phase)
	})
}

func TestPlayerShootsMonster(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	loadRevolver(t, e, 0, 0)

	require.True(t, e.Start())
	require.True(t, e.Advance())
	require.True(t, e.Answer(correctIndex(e)))

	f := e.Frame()
	assert.Equal(t, PhaseDecision, f.Phase)
	assert.NotNil(t, f.Card)
	assert.Contains(t, f.Message, "Correct.")
	assert.Equal(t, 1, f.Round, "a correct answer alone is not a resolved action")

	require.True(t, e.Decide(actor.Shoot))
	gs := e.State()
	assert.False(t, gs.MonsterAlive)
	assert.Equal(t, OutcomeWon, gs.Outcome)
	assert.Equal(t, 2, gs.Round)
	assert.Contains(t, gs.LastMessage, "You aim at the monster.\nBANG.")
}

func TestMonsterShootsPlayer(t *testing.T) {
	rules := DefaultRules()
	rules.AI = actor.AIPolicy{CorrectChance: 1, ShootChanceOnCorrect: 1}
	e := newTestEngine(t, rules)
	toMonsterQuestion(t, e)
	loadRevolver(t, e, 4, 4)

	round := e.State().Round
	require.True(t, e.ResolveMonsterTurn(e.Session()))
	assert.False(t, e.ResolveMonsterTurn(e.Session()), "the monster resolves only once")

	gs := e.State()
	assert.Equal(t, round+1, gs.Round)
	assert.False(t, gs.PlayerAlive)
	assert.Equal(t, OutcomeLost, gs.Outcome)
	assert.Equal(t, EventMonsterShoot, gs.LastEvent)
}

func TestMonsterFrameSchedulesCallback(t *testing.T) {
	rules := DefaultRules()
	rules.MonsterDelay = 250 * time.Millisecond
	e := newTestEngine(t, rules)
	toMonsterQuestion(t, e)

	f := e.Frame()
	assert.True(t, f.AwaitingMonster)
	assert.Equal(t, 250*time.Millisecond, f.MonsterDelay)
	assert.Equal(t, e.Session(), f.Session)
	assert.NotNil(t, f.Card)
}

func TestSpentRevolverIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rules := DefaultRules()
	rules.AI.CorrectChance = 0
	e, err := NewSession(rules, testPool(), dice.NewSource(1), logger)
	require.NoError(t, err)
	toMonsterQuestion(t, e)
	e.State().Revolver.Fired = true

	require.True(t, e.ResolveMonsterTurn(e.Session()))
	gs := e.State()
	assert.Equal(t, revolver.Spent, gs.LastShot)
	assert.True(t, gs.MonsterAlive)
	assert.Contains(t, gs.LastMessage, "spent chamber")
	assert.Contains(t, buf.String(), "Trigger pulled on a spent revolver")
}

func TestAdvanceEndsWhenSomeoneIsDead(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	require.True(t, e.Start())
	e.State().MonsterAlive = false

	require.True(t, e.Advance())
	assert.Equal(t, OutcomeWon, e.State().Outcome)
	assert.Equal(t, PhaseMessage, e.State().Phase, "no further phases after the end")
	assert.False(t, e.Advance())
}

func TestSinkAndTranscript(t *testing.T) {
	rules := DefaultRules()
	rules.AI = actor.AIPolicy{CorrectChance: 1, ShootChanceOnCorrect: 0}
	e := newTestEngine(t, rules)
	loadRevolver(t, e, 5, 0)

	var frames []Frame
	transcript := &Transcript{}
	e.WithSink(SinkFunc(func(f Frame) { frames = append(frames, f) })).WithSink(transcript)

	require.True(t, e.Start())
	require.True(t, e.Advance())
	require.True(t, e.Answer(correctIndex(e)))
	require.True(t, e.Decide(actor.Skip))
	require.True(t, e.Advance())
	require.True(t, e.ResolveMonsterTurn(e.Session()))
	assert.False(t, e.Answer(0))

	phases := make([]Phase, len(frames))
	for i, f := range frames {
		phases[i] = f.Phase
	}
	assert.Equal(t, []Phase{
		PhaseMessage, PhaseQuestion, PhaseDecision, PhaseMessage, PhaseQuestion, PhaseMessage,
	}, phases, "ignored actions emit nothing")

	entries := transcript.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "Narrator", entries[0].Speaker())
	assert.Equal(t, EventPlayerCorrect, entries[1].Event)
	assert.Equal(t, EventPlayerSkip, entries[2].Event)
	assert.Equal(t, actor.Monster, entries[3].Turn)
	assert.Contains(t, transcript.String(), "[4] Monster:\nCorrect.")
}

// TestRandomPlayInvariants drives whole duels with random input and checks
// that each resolved action counts one round and at most one actor dies.
func TestRandomPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		src := dice.NewSource(seed)
		input := dice.NewSource(seed * 7919)
		e, err := NewSession(DefaultRules(), testPool(), src, quietLogger())
		require.NoError(t, err)
		require.True(t, e.Start())

		for step := 0; step < 500 && !e.State().Over(); step++ {
			gs := e.State()
			round := gs.Round
			phase := gs.Phase

			var applied bool
			switch input.Intn(5) {
			case 0:
				applied = e.Advance()
			case 1:
				applied = e.Answer(input.Intn(4))
			case 2:
				applied = e.Decide(actor.Shoot)
			case 3:
				applied = e.Decide(actor.Skip)
			case 4:
				applied = e.ResolveMonsterTurn(e.Session())
			}

			resolved := applied && (phase == PhaseQuestion || phase == PhaseDecision) && gs.Phase == PhaseMessage
			if resolved {
				require.Equal(t, round+1, gs.Round, "seed %d step %d", seed, step)
			} else {
				require.Equal(t, round, gs.Round, "seed %d step %d", seed, step)
			}
			require.False(t, !gs.PlayerAlive && !gs.MonsterAlive, "seed %d: both actors dead", seed)
		}

		gs := e.State()
		require.True(t, gs.Over(), "seed %d: duel should end within 500 random inputs", seed)
		if gs.Outcome == OutcomeWon {
			assert.False(t, gs.MonsterAlive)
		} else {
			assert.False(t, gs.PlayerAlive)
		}
		assert.True(t, gs.Revolver.Fired)
	}
}
