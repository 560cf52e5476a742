package tui

// Key bindings.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyTab    = "tab"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySpace  = " "
	keyAll    = "a"
	keyReload = "r"

	keyConvert  = "c"
	keyDelete   = "d"
	keyPlaylist = "p"
	keyUpload   = "u"
	keyYes      = "y"

	keyPrevPage = "pgup"
	keyNextPage = "pgdown"
)
