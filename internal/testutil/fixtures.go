package testutil

import "github.com/vk/neccard/internal/card"

// DipoleConstants are the constants of a z-axis half-wave dipole centred on
// the origin.
func DipoleConstants() map[string]float64 {
	return map[string]float64{
		"originx":  0,
		"originy":  0,
		"originz":  0,
		"length":   0.13,
		"wire_rad": 0.001,
	}
}

// DipoleWire is the single wire row of the dipole.
func DipoleWire() card.Row {
	return card.Row{"1", "1", "originx", "originy", "originz - length", "originx", "originy", "originz + length", "wire_rad"}
}

// DipoleFrequency, DipoleExcitation and DipoleRadiation are the program
// cards that accompany the dipole.
func DipoleFrequency() card.Row { return card.Row{"0", "200", "0", "0", "5", "5"} }

func DipoleExcitation() card.Row { return card.Row{"0", "1", "1", "00", "1", "0"} }

func DipoleRadiation() card.Row {
	return card.Row{"0", "91", "181", "1000", "0", "0", "2", "2"}
}

// DipoleDocument is the canonical rendering of the dipole with all program
// cards and two significant figures.
const DipoleDocument = "CM Dipole made with dipole.py\n" +
	"CE\n" +
	"GW  1    1  0.00e+00  0.00e+00 -1.30e-01  0.00e+00  0.00e+00  1.30e-01  1.00e-03\n" +
	"GE  0\n" +
	"FR  0  200         0         0  5.00e+00  5.00e+00\n" +
	"EX  0    1         1         0  1.00e+00  0.00e+00\n" +
	"RP  0   91       181      1000         0         0         2         2\n" +
	"EN\n"
