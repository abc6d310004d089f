package handlers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmRun_NonInteractiveDeclines(t *testing.T) {
	saveAndRestoreFactories(t)
	var errOut bytes.Buffer
	stderr = &errOut
	isInteractive = func() bool { return false }
	runPrompt = func(context.Context, *huh.Form) error {
		t.Fatal("prompt must not run without a terminal")
		return nil
	}

	ok, err := confirmRun(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, errOut.String(), "--yes")
}

func TestConfirmRun_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "answered"},
		{name: "aborted", err: huh.ErrUserAborted},
		{name: "broken terminal", err: errors.New("bad tty"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveAndRestoreFactories(t)
			isInteractive = func() bool { return true }
			var shown *huh.Form
			runPrompt = func(_ context.Context, form *huh.Form) error {
				shown = form
				return tt.err
			}

			ok, err := confirmRun(context.Background())
			assert.NotNil(t, shown)
			assert.False(t, ok)
			if tt.wantErr {
				assert.ErrorContains(t, err, "confirmation prompt failed")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
