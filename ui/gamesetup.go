package ui

import (
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"lightsout/engine"
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	helpText *tview.TextView
	onStart  func(engine.GameConfig)
	onCancel func()

	cfg engine.GameConfig
}

const setupHelp = "Tab/Shift+Tab: navigate fields  |  Enter: confirm"

// NewGameSetup creates a new game setup form prefilled with defaults.
func NewGameSetup(defaults engine.GameConfig, onStart func(engine.GameConfig), onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		cfg:      defaults,
	}

	form := tview.NewForm()

	form.AddInputField("Rows", strconv.Itoa(defaults.Rows), 4, tview.InputFieldInteger, func(text string) {
		setup.cfg.Rows, _ = strconv.Atoi(strings.TrimSpace(text))
	})

	form.AddInputField("Columns", strconv.Itoa(defaults.Cols), 4, tview.InputFieldInteger, func(text string) {
		setup.cfg.Cols, _ = strconv.Atoi(strings.TrimSpace(text))
	})

	form.AddInputField("Lit at start (%)", strconv.Itoa(int(defaults.ChanceLightStartsOn*100+0.5)), 4, tview.InputFieldInteger, func(text string) {
		pct, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			pct = -1
		}
		setup.cfg.ChanceLightStartsOn = float64(pct) / 100
	})

	seedText := ""
	if defaults.Seed != 0 {
		seedText = strconv.FormatUint(defaults.Seed, 10)
	}
	form.AddInputField("Seed (blank = random)", seedText, 20, func(text string, lastChar rune) bool {
		return lastChar >= '0' && lastChar <= '9'
	}, func(text string) {
		setup.cfg.Seed, _ = strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	})

	form.AddButton("Start Game", func() {
		setup.Submit()
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	helpText := tview.NewTextView().
		SetText(setupHelp).
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	setup.helpText = helpText
	return setup
}

// Submit validates the form and starts the game, or shows what is wrong.
func (s *GameSetupUI) Submit() {
	if err := s.cfg.Validate(); err != nil {
		s.helpText.SetTextColor(MenuColors.Error)
		s.helpText.SetText(err.Error())
		return
	}
	s.helpText.SetTextColor(MenuColors.Hint)
	s.helpText.SetText(setupHelp)
	s.onStart(s.cfg)
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}
