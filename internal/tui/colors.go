package tui

// Color constants for the droplog TUI theme
const (
	// Base
	ColorBorder = "#3A3F55" // grey-blue

	// Text
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240" // dark grey

	// Accent
	ColorAccentMain   = "#2DD4BF" // teal; selection, active borders
	ColorAccentBright = "#5EEAD4"

	// State
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"

	// Status badges
	ColorFarming   = "#22C55E"
	ColorClaimable = "#F59E0B"
	ColorCompleted = "#6D7383"
	ColorUpcoming  = "#60A5FA"
)
