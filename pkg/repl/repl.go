// Package repl runs the interactive chat loop: it reads lines, routes slash
// commands to the dispatcher and sends everything else to the model with the
// system prompt composed from the current skill session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillchat/pkg/commands"
	"github.com/jingkaihe/skillchat/pkg/llm"
	"github.com/jingkaihe/skillchat/pkg/logger"
	"github.com/jingkaihe/skillchat/pkg/presenter"
	"github.com/jingkaihe/skillchat/pkg/skills"
	"github.com/jingkaihe/skillchat/pkg/sysprompt"
)

// ExitCommand ends the loop when typed on its own, in any letter case.
const ExitCommand = "exit"

// Options holds the loop settings that do not come with a collaborator.
type Options struct {
	// SystemPrompt is the base prompt skills are composed onto.
	SystemPrompt string
	// HistoryMessages is how many prior user and assistant messages are sent
	// with each turn. Zero sends every turn on its own.
	HistoryMessages int
	// Host, Model and Provider are shown in the banner and logs.
	Host     string
	Model    string
	Provider string
}

// REPL is the read-eval-print loop. It is driven by a single goroutine.
type REPL struct {
	reader     *bufio.Reader
	presenter  presenter.Presenter
	repo       *skills.Repository
	session    *skills.Session
	dispatcher *commands.Dispatcher
	client     llm.Client
	opts       Options

	history []llm.Message
	turns   int
}

// New creates a loop reading from in.
func New(in io.Reader, p presenter.Presenter, repo *skills.Repository, session *skills.Session, client llm.Client, opts Options) *REPL {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = sysprompt.DefaultBase
	}
	return &REPL{
		reader:     bufio.NewReader(in),
		presenter:  p,
		repo:       repo,
		session:    session,
		dispatcher: commands.NewDispatcher(repo, session),
		client:     client,
		opts:       opts,
	}
}

// Run prints the banner and processes input until the exit command, end of
// input or cancellation of ctx. Failed commands and chat turns are reported
// and the loop carries on.
func (r *REPL) Run(ctx context.Context) error {
	ctx = logger.WithField(ctx, "session_id", uuid.New().String())
	log := logger.G(ctx)
	log.WithField("host", r.opts.Host).
		WithField("model", r.opts.Model).
		WithField("skills", r.repo.Len()).
		Info("chat session started")

	r.banner()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.presenter.Prompt()
		line, readErr := r.reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return errors.Wrap(readErr, "failed to read input")
		}

		done := r.handleLine(ctx, line)
		if done || readErr == io.EOF {
			r.presenter.Success("Goodbye!")
			log.WithField("turns", r.turns).Info("chat session ended")
			return nil
		}
	}
}

func (r *REPL) banner() {
	if r.presenter.IsQuiet() {
		return
	}

	r.presenter.Section("skillchat")
	r.presenter.Info("Host : " + r.opts.Host)
	r.presenter.Info("Model: " + r.opts.Model)
	r.presenter.Info(fmt.Sprintf("Skills: %d found in %s", r.repo.Len(), r.repo.Root()))
	if r.repo.Len() == 0 {
		r.presenter.Warning("No skills found. Add skill folders under " + r.repo.Root() + ".")
	}
	r.presenter.Info("Type exit to quit. Type /help for commands.")
	r.presenter.Separator()
}

// handleLine processes one input line and reports whether the loop should end.
func (r *REPL) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)

	switch {
	case strings.EqualFold(input, ExitCommand):
		return true
	case input == "":
		return false
	case commands.IsCommand(input):
		r.presenter.Info(r.dispatcher.Handle(ctx, input))
	default:
		r.chat(ctx, line)
	}
	return false
}

// chat sends one turn to the model. On failure the session and history are
// left as they were.
func (r *REPL) chat(ctx context.Context, line string) {
	user := strings.TrimRight(line, "\r\n")
	r.turns++

	systemPrompt := sysprompt.Compose(r.opts.SystemPrompt, r.session)
	messages := llm.BuildMessages(systemPrompt, r.history, user)

	log := logger.G(ctx).WithField("turn", r.turns).
		WithField("model", r.opts.Model).
		WithField("provider", r.opts.Provider)
	log.WithField("system_prompt_bytes", len(systemPrompt)).
		WithField("messages", len(messages)).
		Debug("sending chat turn")

	reply, err := r.client.Complete(ctx, messages)
	if err != nil {
		log.WithError(err).Warn("chat turn failed")
		r.presenter.Error(err, "chat turn failed")
		return
	}

	r.presenter.Reply(reply)
	r.remember(user, reply)
}

// remember appends a completed exchange to the history window.
func (r *REPL) remember(user, reply string) {
	if r.opts.HistoryMessages <= 0 {
		return
	}

	r.history = append(r.history,
		llm.Message{Role: llm.RoleUser, Content: user},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	if excess := len(r.history) - r.opts.HistoryMessages; excess > 0 {
		r.history = append([]llm.Message(nil), r.history[excess:]...)
	}
}
