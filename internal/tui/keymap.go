package tui

// Key binding constants used by the timer and the viewer.
const (
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeyEsc      = "esc"
	KeyEnter    = "enter"
	KeySpace    = " "
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyJ        = "j"
	KeyK        = "k"
	KeyH        = "h"
	KeyL        = "l"
	KeyStart    = "s"
	KeyPause    = "p"
	KeyStop     = "s"
	KeyReset    = "r"
	KeyFocus    = "f"
	KeyBack     = "b"
	KeySave     = "ctrl+s"
	KeyShare    = "ctrl+t"
	KeyNextPick = "ctrl+n"
	KeyPrevPick = "ctrl+p"
	KeySort     = "s"
)
