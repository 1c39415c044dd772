package consts

const (
	SPEED_OF_LIGHT = 299792458.0 // Speed of light in vacuum (m/s)
	CENTER_WL      = 1550e-9     // C-band center wavelength (m)
)
