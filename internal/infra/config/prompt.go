package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// ErrPromptAborted is returned when the operator presses Ctrl+C during a prompt.
var ErrPromptAborted = errors.New("prompt aborted")

// ReadlinePrompter asks questions on the terminal. It is only used before the
// notifier loop starts; the loop itself never reads input.
type ReadlinePrompter struct {
	rl *readline.Instance
}

func NewReadlinePrompter() (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal prompt: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Ask shows question with def in brackets; an empty answer returns def.
func (p *ReadlinePrompter) Ask(question, def string) (string, error) {
	prompt := question
	if def != "" {
		prompt += " [" + def + "]"
	}
	p.rl.SetPrompt(prompt + ": ")
	line, err := p.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", ErrPromptAborted
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// AskSecret reads a value without echoing it.
func (p *ReadlinePrompter) AskSecret(question string) (string, error) {
	b, err := p.rl.ReadPassword(question + ": ")
	if err == readline.ErrInterrupt {
		return "", ErrPromptAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}
