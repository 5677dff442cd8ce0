package cascade

// MaxOrder is the largest number of cascaded first-order stages per section.
// State storage is sized for this many stages.
const MaxOrder = 6

// Default parameters used by the convenience constructors and host programs.
const (
	DefaultOrder      = 2
	DefaultSampleRate = 48000.0
)

// dcBlockerCornerHz is the corner used by NewDCBlocker.
const dcBlockerCornerHz = 10.0
