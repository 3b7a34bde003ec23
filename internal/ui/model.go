// Package ui implements the terminal interface: search, queue and
// player bar, plus the playlist generation flow.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/engine"
	"github.com/museed/museed-tui/internal/playback"
	"github.com/museed/museed-tui/internal/state"
	"github.com/museed/museed-tui/internal/task"
)

// sessionAPI is the slice of the session manager the UI drives.
type sessionAPI interface {
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, username, email, password string) error
	Logout()
	Authenticated() bool
	Username() string
}

// focus identifies which pane receives navigation keys.
type focus int

const (
	focusInput focus = iota
	focusResults
	focusQueue
)

// prompt is a modal input layered over the main view.
type prompt int

const (
	promptNone prompt = iota
	promptUpload // path of a local seed file
	promptLoginUser
	promptLoginPass
	promptSignupUser
	promptSignupEmail
	promptSignupPass
)

// generation tracks one in-flight playlist generation.
type generation struct {
	taskID   string
	label    string
	status   string
	attempt  int
	cancel   context.CancelFunc
	progress chan generateProgressMsg
	done     chan generateDoneMsg
}

// Deps are the collaborators the model drives. Everything is injected;
// the model owns no globals.
type Deps struct {
	Client  *api.Client
	Session sessionAPI
	Ctrl    *playback.Controller
	Engine  *engine.Adapter
	Poller  *task.Poller
	Store   *state.Store
	Log     *zap.Logger
}

type Model struct {
	deps Deps
	sub  *playback.Subscription

	focus       focus
	prompt      prompt
	input       textinput.Model
	promptInput textinput.Model

	results      []api.Track
	resultCursor int
	queueCursor  int
	searching    bool

	gen *generation

	loginUser   string
	signupUser  string
	signupEmail string

	progress engine.Progress

	statusMsg string
	errorMsg  string

	width  int
	height int
}

// New creates the root model. The playback subscription feeds error
// events into the message loop.
func New(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Search tracks..."
	input.Focus()
	input.CharLimit = 120

	return Model{
		deps:        deps,
		sub:         deps.Ctrl.Subscribe(),
		input:       input,
		promptInput: textinput.New(),
	}
}

func (m *Model) setError(msg string) {
	m.errorMsg = msg
	m.statusMsg = ""
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.errorMsg = ""
}
