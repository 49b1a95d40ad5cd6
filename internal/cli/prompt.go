package cli

import (
	"github.com/charmbracelet/huh"
)

// choice is one selectable option with a display label and an underlying
// value.
type choice struct {
	Label string
	Value string
}

// prompter abstracts the interactive selection steps so command logic can
// be tested without a terminal.
type prompter interface {
	Select(title string, options []choice) (string, error)
	MultiSelect(title string, options []choice) ([]string, error)
}

// huhPrompter implements prompter with the huh TUI library.
type huhPrompter struct{}

func (huhPrompter) Select(title string, options []choice) (string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected).
		Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}

func (huhPrompter) MultiSelect(title string, options []choice) ([]string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected []string
	err := huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}
	return selected, nil
}
