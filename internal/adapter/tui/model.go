// Package tui is the terminal client: a bubbletea model over the adventure,
// quest and wallet use cases of a single local user.
package tui

import (
	"context"
	"errors"
	"fmt"

	adventureapp "questforge/internal/app/adventure"
	"questforge/internal/app/ports"
	questapp "questforge/internal/app/quest"
	walletapp "questforge/internal/app/wallet"
	"questforge/internal/domain/adventure"
	"questforge/internal/domain/quest"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// snapshotBuffer bounds the observer queue; the controller never waits on us.
const snapshotBuffer = 32

type Services struct {
	Adventure adventureapp.UseCase
	Quests    questapp.UseCase
	Wallet    walletapp.UseCase
}

type snapshotMsg adventureapp.Response

type questsMsg struct {
	quests []quest.Quest
	err    error
}

type walletMsg struct {
	diamonds int64
	err      error
}

type adventureMsg struct {
	resp   adventureapp.Response
	status string
	err    error
}

type collectMsg struct {
	resp adventureapp.CollectResponse
	err  error
}

type questDoneMsg struct {
	resp questapp.CompleteResponse
	err  error
}

type questCreatedMsg struct {
	quest quest.Quest
	err   error
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	userID string
	svc    Services

	updates   chan adventureapp.Response
	stopWatch func()

	adventure adventureapp.Response
	quests    []quest.Quest
	cursor    int
	diamonds  int64

	input  textinput.Model
	adding bool
	keys   keyMap
	help   help.Model

	status string
	err    error
	width  int
}

// New subscribes to the user's adventure session. Close releases the
// subscription.
func New(ctx context.Context, userID string, svc Services) (*Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		userID:  userID,
		svc:     svc,
		updates: make(chan adventureapp.Response, snapshotBuffer),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	stop, err := svc.Adventure.Watch(ctx, m.adventureReq(), m.offer)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch adventure: %w", err)
	}
	m.stopWatch = stop

	ti := textinput.New()
	ti.Placeholder = "New quest title"
	ti.CharLimit = quest.MaxTitleLength
	m.input = ti
	return m, nil
}

// offer queues r without blocking the controller. When the queue is full the
// oldest snapshot is dropped so the latest one, such as the completion of a
// run, always reaches the view.
func (m *Model) offer(r adventureapp.Response) {
	for {
		select {
		case m.updates <- r:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

func (m *Model) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
	m.cancel()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadStatus(), m.loadQuests(), m.loadWallet(), m.waitForUpdate())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.applyAdventure(adventureapp.Response(msg))
		return m, m.waitForUpdate()

	case adventureMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.applyAdventure(msg.resp)
		m.succeed(msg.status)
		return m, nil

	case collectMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.applyAdventure(msg.resp.Response)
		m.diamonds = msg.resp.DiamondBalance
		m.succeed(fmt.Sprintf("Collected %d diamonds", msg.resp.Collected))
		return m, nil

	case questsMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.quests = msg.quests
		m.clampCursor()
		return m, nil

	case walletMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.diamonds = msg.diamonds
		return m, nil

	case questCreatedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.succeed(fmt.Sprintf("Added %q", msg.quest.Title))
		return m, m.loadQuests()

	case questDoneMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, m.loadQuests()
		}
		status := fmt.Sprintf("+%d energy (%d/%d)", msg.resp.EnergyGained, msg.resp.Energy, msg.resp.EnergyCapacity)
		if msg.resp.ReadyForAdventure {
			status += " · ready for adventure!"
		}
		m.succeed(status)
		return m, m.loadQuests()

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopAdding()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		title := m.input.Value()
		m.stopAdding()
		return m, m.createQuest(title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.quests)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Complete):
		if len(m.quests) == 0 {
			return m, nil
		}
		return m, m.completeQuest(m.quests[m.cursor].ID)
	case key.Matches(msg, m.keys.Start):
		return m, m.adventureCmd("Adventure started", m.svc.Adventure.Start)
	case key.Matches(msg, m.keys.Collect):
		return m, m.collect()
	case key.Matches(msg, m.keys.Reset):
		return m, m.adventureCmd("Progress reset", m.svc.Adventure.Reset)
	}
	return m, nil
}

// applyAdventure ignores responses older than the one already shown.
func (m *Model) applyAdventure(r adventureapp.Response) {
	if r.Seq < m.adventure.Seq {
		return
	}
	m.adventure = r
}

func (m *Model) stopAdding() {
	m.adding = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.quests) {
		m.cursor = len(m.quests) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) succeed(status string) {
	m.status = status
	m.err = nil
}

func (m *Model) fail(err error) {
	m.err = err
	m.status = ""
	var te *adventure.TransitionError
	if !errors.As(err, &te) {
		hlog.CtxWarnf(m.ctx, "tui: user=%s: %v", m.userID, err)
	}
}

func (m *Model) adventureReq() adventureapp.Request {
	return adventureapp.Request{UserID: m.userID}
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates, done := m.updates, m.ctx.Done()
	return func() tea.Msg {
		select {
		case r := <-updates:
			return snapshotMsg(r)
		case <-done:
			return nil
		}
	}
}

func (m *Model) loadStatus() tea.Cmd {
	return m.adventureCmd("", m.svc.Adventure.Status)
}

func (m *Model) adventureCmd(status string, fn func(context.Context, adventureapp.Request) (adventureapp.Response, error)) tea.Cmd {
	ctx, req := m.ctx, m.adventureReq()
	return func() tea.Msg {
		resp, err := fn(ctx, req)
		return adventureMsg{resp: resp, status: status, err: err}
	}
}

func (m *Model) collect() tea.Cmd {
	ctx, req, uc := m.ctx, m.adventureReq(), m.svc.Adventure
	return func() tea.Msg {
		resp, err := uc.Collect(ctx, req)
		return collectMsg{resp: resp, err: err}
	}
}

func (m *Model) loadQuests() tea.Cmd {
	ctx, userID, uc := m.ctx, m.userID, m.svc.Quests
	return func() tea.Msg {
		resp, err := uc.List(ctx, questapp.ListRequest{UserID: userID})
		return questsMsg{quests: resp.Quests, err: err}
	}
}

func (m *Model) loadWallet() tea.Cmd {
	ctx, userID, uc := m.ctx, m.userID, m.svc.Wallet
	return func() tea.Msg {
		w, err := uc.Balance(ctx, walletapp.Request{UserID: userID})
		return walletMsg{diamonds: w.Diamonds, err: err}
	}
}

func (m *Model) createQuest(title string) tea.Cmd {
	ctx, userID, uc := m.ctx, m.userID, m.svc.Quests
	return func() tea.Msg {
		q, err := uc.Create(ctx, questapp.CreateRequest{UserID: userID, Title: title})
		return questCreatedMsg{quest: q, err: err}
	}
}

func (m *Model) completeQuest(questID string) tea.Cmd {
	ctx, userID, uc := m.ctx, m.userID, m.svc.Quests
	return func() tea.Msg {
		resp, err := uc.Complete(ctx, questapp.CompleteRequest{UserID: userID, QuestID: questID})
		return questDoneMsg{resp: resp, err: err}
	}
}

func describeError(err error) string {
	var te *adventure.TransitionError
	switch {
	case errors.As(err, &te):
		switch te.Reason {
		case adventure.ReasonInsufficientEnergy:
			return "Not enough energy yet. Complete more quests."
		case adventure.ReasonAlreadyRunning:
			return "An adventure is already under way."
		case adventure.ReasonRewardPending:
			return "Collect your reward before setting out again."
		case adventure.ReasonNoReward:
			return "There is no reward to collect."
		}
	case errors.Is(err, quest.ErrEmptyTitle):
		return "A quest needs a title."
	case errors.Is(err, quest.ErrTitleTooLong):
		return fmt.Sprintf("Quest titles are at most %d characters.", quest.MaxTitleLength)
	case errors.Is(err, ports.ErrPersistenceUnavailable):
		return "Could not save progress. It will be retried."
	}
	return err.Error()
}
