package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var (
	// isInteractive reports whether stdin is a terminal.
	isInteractive = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// runPrompt shows the confirmation form.
	runPrompt = func(ctx context.Context, form *huh.Form) error {
		return form.RunWithContext(ctx)
	}

	stderr io.Writer = os.Stderr
)

// confirmRun asks whether to create resources in every enabled region.
// Without a terminal there is nobody to ask and the run is declined.
func confirmRun(ctx context.Context) (bool, error) {
	if !isInteractive() {
		fmt.Fprintln(stderr, "stdin is not a terminal; pass --yes to run without confirmation")
		return false, nil
	}

	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create a VPC mesh in every enabled region?").
				Description("VPCs, gateways, subnets and peering connections are created and never rolled back").
				Affirmative("Yes").
				Negative("No").
				Value(&proceed),
		),
	)

	if err := runPrompt(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return proceed, nil
}
