// lightsout is a terminal Lights Out puzzle, with an optional browser front end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"lightsout/config"
	"lightsout/engine"
	"lightsout/logging"
	"lightsout/sound"
	"lightsout/ui"
	"lightsout/web"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagRows       = flag.Int("rows", 0, "Number of rows")
	flagCols       = flag.Int("cols", 0, "Number of columns")
	flagChance     = flag.Float64("chance", -1, "Chance each light starts on (0-1)")
	flagSeed       = flag.Uint64("seed", 0, "Seed for the starting board (0 = random)")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagWeb        = flag.String("web", "", "Serve the browser version on this address instead, e.g. :8080")
	flagNoSound    = flag.Bool("nosound", false, "Disable sound")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.LightsBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var lastGameCfg engine.GameConfig

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("lightsout %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	gameCfg := buildGameConfigFromFlags()
	if err := gameCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *flagWeb != "" {
		if err := runWeb(*flagWeb, gameCfg); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		logPath = os.DevNull
	}
	closeLog, err := logging.Setup(cfg.Log.Level, logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	player := openSound()
	defer player.Close()

	if err := runTUI(gameCfg, player); err != nil {
		logrus.WithError(err).Error("ui stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runWeb serves the browser front end until interrupted.
func runWeb(addr string, gameCfg engine.GameConfig) error {
	if err := logging.Stderr(cfg.Log.Level); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Printf("Serving Lights Out on http://%s\n", addr)
	return web.NewServer(gameCfg).ListenAndServe(ctx, addr)
}

// openSound returns the speaker, or a silent player if sound is off or unavailable.
func openSound() sound.Player {
	if *flagNoSound || !cfg.Sound {
		return sound.Nop{}
	}
	s, err := sound.NewSpeaker(0.3)
	if err != nil {
		// Non-fatal, game can run without sound
		logrus.WithError(err).Warn("audio initialization failed")
		return sound.Nop{}
	}
	return s
}

func runTUI(gameCfg engine.GameConfig, player sound.Player) error {
	quickStart := *flagQuickStart || *flagRows > 0 || *flagCols > 0 || *flagChance >= 0 || *flagSeed != 0 || *flagFocus

	app = tview.NewApplication().EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ✦ lights out ")

	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewLightsBoard(cfg, gameHint, player)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyDown:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyRight:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyEnter:
			gameBoard.FlipSelected()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(0, -1)
			case 'j':
				gameBoard.MoveSelection(1, 0)
			case 'k':
				gameBoard.MoveSelection(-1, 0)
			case 'l':
				gameBoard.MoveSelection(0, 1)
			case ' ':
				gameBoard.FlipSelected()
			case 'n':
				next := lastGameCfg
				next.Seed = 0
				startGame(next)
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	setupUI := ui.NewGameSetup(
		gameCfg,
		func(c engine.GameConfig) {
			rememberGame(c)
			startGame(c)
		},
		func() {
			app.Stop()
		},
	)

	rootPage.AddPage("setup", setupUI.Form(), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)

	if quickStart {
		startGame(gameCfg)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	return app.SetRoot(rootPage, true).Run()
}

// startGame starts a fresh session with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	session, err := engine.NewSession(gameCfg)
	if err != nil {
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	lastGameCfg = gameCfg
	gameBoard.ConnectGame(session)
	gameBoard.SetSeed(session.Config().Seed)
	rootPage.SwitchToPage("gameview")
}

// rememberGame saves the setup form's choices as the defaults for the next run.
func rememberGame(gameCfg engine.GameConfig) {
	saved, err := cfg.RememberGame(config.GameDefaults{
		Rows:                gameCfg.Rows,
		Cols:                gameCfg.Cols,
		ChanceLightStartsOn: gameCfg.ChanceLightStartsOn,
	})
	if err != nil {
		logrus.WithError(err).Warn("could not save game defaults")
		return
	}
	if saved {
		logrus.WithField("game", cfg.Game).Debug("saved game defaults")
	}
}

// buildGameConfigFromFlags creates a GameConfig from the config file and command-line flags.
func buildGameConfigFromFlags() engine.GameConfig {
	gameCfg := engine.GameConfig{
		Rows:                cfg.Game.Rows,
		Cols:                cfg.Game.Cols,
		ChanceLightStartsOn: cfg.Game.ChanceLightStartsOn,
	}

	if *flagRows > 0 {
		gameCfg.Rows = *flagRows
	}
	if *flagCols > 0 {
		gameCfg.Cols = *flagCols
	}
	if *flagChance >= 0 {
		gameCfg.ChanceLightStartsOn = *flagChance
	}
	gameCfg.Seed = *flagSeed

	return gameCfg
}
