package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"questforge/internal/adapter/repo/memory"
	adventureapp "questforge/internal/app/adventure"
	"questforge/internal/app/lifecycle"
	questapp "questforge/internal/app/quest"
	walletapp "questforge/internal/app/wallet"
	"questforge/internal/domain/adventure"

	tea "github.com/charmbracelet/bubbletea"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestModel(t *testing.T) (*Model, *clock) {
	t.Helper()
	store := memory.NewStore()
	clk := &clock{now: time.UnixMilli(1_700_000_000_000)}
	sessions := lifecycle.NewRegistry(lifecycle.Config{
		Store:        memory.NewAdventureStateRepo(store),
		Events:       memory.NewEventRepo(store),
		Now:          clk.Now,
		TickInterval: time.Hour,
	})
	t.Cleanup(func() { _ = sessions.Close(context.Background()) })
	wallets := memory.NewWalletRepo(store)
	m, err := New(context.Background(), "local", Services{
		Adventure: adventureapp.UseCase{Sessions: sessions, Wallets: wallets, Now: clk.Now},
		Quests:    questapp.UseCase{Quests: memory.NewQuestRepo(store), Sessions: sessions, Now: clk.Now},
		Wallet:    walletapp.UseCase{Wallets: wallets},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	t.Cleanup(m.Close)
	run(t, m, m.loadStatus())
	return m, clk
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m *Model, k string) {
	t.Helper()
	_, cmd := m.Update(keyMsg(k))
	run(t, m, cmd)
}

// run executes cmd and feeds each resulting message back into the model
// until the chain ends.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatalf("command chain did not settle")
		}
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func addQuest(t *testing.T, m *Model, title string) {
	t.Helper()
	_, _ = m.Update(keyMsg("a"))
	if !m.adding {
		t.Fatalf("expected input mode after pressing a")
	}
	_, _ = m.Update(keyMsg(title))
	press(t, m, "enter")
}

func TestModel_QuestsFillEnergyThenAdventurePays(t *testing.T) {
	m, clk := newTestModel(t)
	for _, title := range []string{"Read", "Run", "Write"} {
		addQuest(t, m, title)
	}
	if len(m.quests) != 3 || m.quests[0].Title != "Read" {
		t.Fatalf("expected three quests, got %+v", m.quests)
	}

	for i := 0; i < 3; i++ {
		press(t, m, "enter")
	}
	if len(m.quests) != 0 {
		t.Fatalf("completed quests should be removed, got %d", len(m.quests))
	}
	if !strings.Contains(m.status, "ready for adventure") {
		t.Fatalf("expected ready status, got %q", m.status)
	}

	press(t, m, "s")
	if m.adventure.Phase != adventure.PhaseRunning || m.adventure.Countdown != "00:30s" {
		t.Fatalf("expected running adventure, got %+v", m.adventure)
	}
	if !strings.Contains(m.View(), "00:30s left") {
		t.Fatalf("expected countdown in view:\n%s", m.View())
	}

	clk.Advance(30 * time.Second)
	run(t, m, m.loadStatus())
	if m.adventure.Phase != adventure.PhaseRewardPending {
		t.Fatalf("expected reward pending, got %s", m.adventure.Phase)
	}
	reward := m.adventure.State.PendingReward

	press(t, m, "c")
	if m.err != nil {
		t.Fatalf("collect failed: %v", m.err)
	}
	if m.diamonds != int64(reward) || m.adventure.State.PendingReward != 0 {
		t.Fatalf("expected %d diamonds and no pending reward, got %d / %+v", reward, m.diamonds, m.adventure.State)
	}
	if !strings.Contains(m.View(), "2ND ADVENTURE") {
		t.Fatalf("expected ordinal label in view:\n%s", m.View())
	}
}

func TestModel_StartWithoutEnergyExplainsWhy(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "s")
	if m.err == nil {
		t.Fatalf("expected rejected start")
	}
	if !strings.Contains(m.View(), "Not enough energy") {
		t.Fatalf("expected friendly reason in view:\n%s", m.View())
	}
}

func TestModel_CancelAddingKeepsQuestList(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.Update(keyMsg("a"))
	_, _ = m.Update(keyMsg("s"))
	if m.adventure.Phase != adventure.PhaseIdle || m.input.Value() != "s" {
		t.Fatalf("keys typed while adding must go to the input, value=%q", m.input.Value())
	}
	press(t, m, "esc")
	if m.adding || len(m.quests) != 0 {
		t.Fatalf("expected input closed and no quest added")
	}
}

func TestModel_IgnoresStaleSnapshots(t *testing.T) {
	m, _ := newTestModel(t)
	m.applyAdventure(adventureapp.Response{Seq: 10, Phase: adventure.PhaseRunning})
	_, _ = m.Update(snapshotMsg(adventureapp.Response{Seq: 4, Phase: adventure.PhaseIdle}))
	if m.adventure.Phase != adventure.PhaseRunning {
		t.Fatalf("stale snapshot replaced newer state")
	}
}

func TestModel_ReceivesControllerSnapshots(t *testing.T) {
	m, _ := newTestModel(t)
	if _, err := m.svc.Quests.Create(context.Background(), questapp.CreateRequest{UserID: "local", Title: "Stretch"}); err != nil {
		t.Fatalf("create quest: %v", err)
	}
	run(t, m, m.loadQuests())
	_, cmd := m.Update(keyMsg("enter"))
	if msg := cmd(); msg == nil {
		t.Fatalf("expected quest completion message")
	}

	msg := m.waitForUpdate()()
	snap, ok := msg.(snapshotMsg)
	if !ok {
		t.Fatalf("expected snapshotMsg, got %T", msg)
	}
	if snap.State.Energy != 5 {
		t.Fatalf("expected observer snapshot with 5 energy, got %+v", snap.State)
	}
}

func TestModel_FullQueueKeepsNewestSnapshot(t *testing.T) {
	m, _ := newTestModel(t)
	for len(m.updates) > 0 {
		<-m.updates
	}
	for seq := uint64(1); seq <= snapshotBuffer+1; seq++ {
		m.offer(adventureapp.Response{Seq: seq})
	}
	if len(m.updates) != snapshotBuffer {
		t.Fatalf("expected a full queue, got %d", len(m.updates))
	}
	var last adventureapp.Response
	for len(m.updates) > 0 {
		last = <-m.updates
	}
	if last.Seq != snapshotBuffer+1 {
		t.Fatalf("expected newest snapshot kept, last seq=%d", last.Seq)
	}
}

func TestBar(t *testing.T) {
	if got := bar(15, 15); strings.Contains(got, "·") {
		t.Fatalf("full bar expected, got %q", got)
	}
	if got := bar(0, 0); !strings.HasPrefix(got, "[·") {
		t.Fatalf("empty bar expected, got %q", got)
	}
}
