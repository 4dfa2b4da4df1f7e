// Package region defines the Norwegian region enumeration shared by the
// provider and claim tables.
package region

// Region is one of the 13 reporting regions.
type Region string

const (
	Oslo          Region = "Oslo"
	Viken         Region = "Viken"
	Vestland      Region = "Vestland"
	Rogaland      Region = "Rogaland"
	Trondelag     Region = "Trondelag"
	Innlandet     Region = "Innlandet"
	Agder         Region = "Agder"
	MoreOgRomsdal Region = "MoreOgRomsdal"
	Nordland      Region = "Nordland"
	Telemark      Region = "Telemark"
	Troms         Region = "Troms"
	Finnmark      Region = "Finnmark"
	Other         Region = "Other"
)

// All returns every region in declaration order. The order is stable and
// load-bearing: the seed generator indexes into it.
func All() []Region {
	return []Region{
		Oslo, Viken, Vestland, Rogaland, Trondelag, Innlandet, Agder,
		MoreOgRomsdal, Nordland, Telemark, Troms, Finnmark, Other,
	}
}

// Valid reports whether r is a known region.
func Valid(r Region) bool {
	for _, known := range All() {
		if r == known {
			return true
		}
	}
	return false
}
