package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:   true,
		DrawLastFlipBackground: false,
		CellWidth:              3,
		Colors: ConfigColors{
			LitColor:      220,
			UnlitColor:    238,
			GridColor:     244,
			CursorColorFG: 232,
			CursorColorBG: 109,
			LastFlipBG:    60,
		},
		Symbols: ConfigSymbols{
			Lit:    '█',
			Unlit:  '░',
			Cursor: '▒',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameDefaults{
			Rows:                3,
			Cols:                3,
			ChanceLightStartsOn: 0.5,
		},
		Sound: true,
		Log: LogConfig{
			Level: "info",
		},
	}
}
