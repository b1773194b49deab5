package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"marketingcoach/internal/models"
)

// terminalUI renders the session with huh forms and lipgloss styles.
type terminalUI struct {
	out io.Writer
}

func newTerminalUI(out io.Writer) *terminalUI {
	return &terminalUI{out: out}
}

func (u *terminalUI) pickMode(modes []models.ModeInfo) (models.Mode, error) {
	fmt.Fprintln(u.out, styleTitle.Render("Marketing Coach Agent"))
	fmt.Fprintln(u.out, styleSubtitle.Render("Your AI-powered marketing strategy assistant"))

	options := make([]huh.Option[models.Mode], 0, len(modes))
	for _, m := range modes {
		options = append(options, huh.NewOption(m.Title+": "+m.Description, m.ID))
	}
	var mode models.Mode
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.Mode]().
				Title("Choose a coaching mode").
				Options(options...).
				Value(&mode),
		),
	).WithTheme(coachHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", formErr(err)
	}
	return mode, nil
}

func (u *terminalUI) collectBusiness(mode models.ModeInfo) (models.BusinessContext, error) {
	var bc models.BusinessContext
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Industry").
				Placeholder("e.g., Health & Fitness, SaaS, E-commerce").
				Value(&bc.Industry),
			huh.NewInput().
				Title("Target Audience").
				Placeholder("e.g., Small business owners, Busy professionals").
				Value(&bc.TargetAudience),
			huh.NewInput().
				Title("Product/Service").
				Placeholder("e.g., Online coaching program, Project management software").
				Value(&bc.Product),
		).Title(mode.Title).Description("Tell me about your business"),
	).WithTheme(coachHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return models.BusinessContext{}, formErr(err)
	}
	return bc, nil
}

func (u *terminalUI) readMessage() (string, error) {
	var text string
	input := huh.NewInput().
		Title("You").
		Placeholder("Share your thoughts or ask a question... (" + cmdMode + " to switch, " + cmdQuit + " to exit)").
		Value(&text)
	form := huh.NewForm(huh.NewGroup(input)).WithTheme(coachHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", formErr(err)
	}
	return text, nil
}

func (u *terminalUI) showMessage(msg models.Message) {
	label := styleAssistant.Render("Coach")
	if msg.Role == models.RoleUser {
		label = styleUser.Render("You")
	}
	fmt.Fprintf(u.out, "\n%s\n%s\n", label, styleBody.Render(msg.Content))
}

func (u *terminalUI) showNotice(text string) {
	fmt.Fprintln(u.out, styleNotice.Render(text))
}

func (u *terminalUI) wait(title string, fn func()) {
	var once sync.Once
	run := func() { once.Do(fn) }
	if err := spinner.New().Title(title).Action(run).Run(); err != nil {
		run()
	}
}

// formErr turns an aborted form into io.EOF so the session ends quietly.
func formErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return io.EOF
	}
	return err
}
