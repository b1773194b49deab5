package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"marketingcoach/internal/client"
	"marketingcoach/internal/config"
	"marketingcoach/internal/controller"
	"marketingcoach/internal/models"
	"marketingcoach/internal/observability"
)

const (
	cmdQuit = "/quit"
	cmdMode = "/mode"

	incompleteContextNotice = "Please fill in all business information fields"
)

// chatUI is one way of talking to the person at the terminal.
type chatUI interface {
	pickMode(modes []models.ModeInfo) (models.Mode, error)
	collectBusiness(mode models.ModeInfo) (models.BusinessContext, error)
	readMessage() (string, error)
	showMessage(msg models.Message)
	showNotice(text string)
	// wait runs fn while showing a busy indicator.
	wait(title string, fn func())
}

func newChatCmd(root *rootOptions) *cobra.Command {
	var (
		serverURL string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive coaching session",
		Long: "Start an interactive coaching session. With --server the session talks to a running\n" +
			"coach server; otherwise requests go to the provider from this process.\n" +
			"Type " + cmdMode + " to pick another mode and " + cmdQuit + " to leave.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			observability.Configure(os.Stderr, "error")

			var (
				port  controller.Mediator
				modes = models.Modes()
			)
			if serverURL != "" {
				c := client.New(serverURL)
				if !c.Available(ctx) {
					return fmt.Errorf("coach server at %s is not reachable", serverURL)
				}
				if remote, err := c.Modes(ctx); err == nil && len(remote) > 0 {
					modes = remote
				}
				port = c
			} else {
				cfg, err := config.Load(root.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				m, store, err := buildMediator(ctx, cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				port = m
			}

			var ui chatUI
			if plain || !isInteractive() {
				ui = newLineUI(cmd.InOrStdin(), cmd.OutOrStdout())
			} else {
				ui = newTerminalUI(cmd.OutOrStdout())
			}
			return runChat(ctx, controller.New(port), ui, modes)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "coach server base URL, e.g. http://localhost:8090")
	cmd.Flags().BoolVar(&plain, "plain", false, "read plain lines instead of interactive forms")
	return cmd
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// runChat drives ctrl through picker, business form and chat until the input
// ends or the user quits.
func runChat(ctx context.Context, ctrl *controller.Controller, ui chatUI, modes []models.ModeInfo) error {
	for {
		mode, err := ui.pickMode(modes)
		if err != nil {
			return ignoreEOF(err)
		}
		if err := ctrl.SelectMode(mode); err != nil {
			ui.showNotice(err.Error())
			continue
		}
		info, _ := mode.Info()

		for ctrl.State() != controller.Chatting {
			bc, err := ui.collectBusiness(info)
			if err != nil {
				return ignoreEOF(err)
			}
			if err := ctrl.SubmitBusinessContext(bc); err != nil {
				if errors.Is(err, models.ErrIncompleteContext) {
					ui.showNotice(incompleteContextNotice)
					continue
				}
				return err
			}
		}
		for _, msg := range ctrl.Transcript() {
			ui.showMessage(msg)
		}

		switchMode, err := chatLoop(ctx, ctrl, ui)
		if err != nil || !switchMode {
			return ignoreEOF(err)
		}
		ctrl.Reset()
	}
}

// chatLoop reads messages until the user asks for another mode (true) or
// leaves (false).
func chatLoop(ctx context.Context, ctrl *controller.Controller, ui chatUI) (bool, error) {
	for {
		text, err := ui.readMessage()
		if err != nil {
			return false, err
		}
		switch strings.TrimSpace(text) {
		case "":
			continue
		case cmdQuit:
			return false, nil
		case cmdMode:
			return true, nil
		}

		ui.showMessage(models.Message{Role: models.RoleUser, Content: text})
		var (
			reply   models.Message
			sendErr error
		)
		ui.wait("Thinking...", func() {
			reply, sendErr = ctrl.SendMessage(ctx, text)
		})
		switch {
		case errors.Is(sendErr, controller.ErrEmptyMessage):
			continue
		case errors.Is(sendErr, controller.ErrRequestPending), errors.Is(sendErr, controller.ErrNotChatting):
			ui.showNotice(sendErr.Error())
			continue
		case sendErr != nil:
			observability.Logger().Error("coaching request failed", "error", sendErr)
		}
		if reply.Content != "" {
			ui.showMessage(reply)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
