package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"marketingcoach/internal/models"
)

// lineUI reads one answer per line. It serves pipes and dumb terminals.
type lineUI struct {
	in  *bufio.Scanner
	out io.Writer
}

func newLineUI(in io.Reader, out io.Writer) *lineUI {
	return &lineUI{in: bufio.NewScanner(in), out: out}
}

func (u *lineUI) readLine(prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return u.in.Text(), nil
}

// pickMode accepts either the list number or the mode id.
func (u *lineUI) pickMode(modes []models.ModeInfo) (models.Mode, error) {
	fmt.Fprintln(u.out, "Marketing Coach Agent")
	for i, m := range modes {
		fmt.Fprintf(u.out, "  %d) %s: %s\n", i+1, m.Title, m.Description)
	}
	for {
		line, err := u.readLine("Mode: ")
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(modes) {
			return modes[n-1].ID, nil
		}
		if mode, err := models.ParseMode(line); err == nil {
			return mode, nil
		}
		fmt.Fprintf(u.out, "Unknown mode %q\n", line)
	}
}

func (u *lineUI) collectBusiness(mode models.ModeInfo) (models.BusinessContext, error) {
	fmt.Fprintln(u.out, mode.Title)
	var (
		bc  models.BusinessContext
		err error
	)
	if bc.Industry, err = u.readLine("Industry: "); err != nil {
		return bc, err
	}
	if bc.TargetAudience, err = u.readLine("Target Audience: "); err != nil {
		return bc, err
	}
	if bc.Product, err = u.readLine("Product/Service: "); err != nil {
		return bc, err
	}
	return bc, nil
}

func (u *lineUI) readMessage() (string, error) {
	return u.readLine("> ")
}

func (u *lineUI) showMessage(msg models.Message) {
	label := "Coach"
	if msg.Role == models.RoleUser {
		label = "You"
	}
	fmt.Fprintf(u.out, "%s: %s\n", label, msg.Content)
}

func (u *lineUI) showNotice(text string) {
	fmt.Fprintln(u.out, text)
}

func (u *lineUI) wait(_ string, fn func()) {
	fn()
}
