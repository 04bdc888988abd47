package webptool

// Result describes one file's conversion or compression outcome. It is
// consumed immediately by the reporting layer and never persisted.
type Result struct {
	OriginalSize   int64
	CompressedSize int64
	// Ratio is the size reduction percentage, rounded to one decimal.
	Ratio float64
	// Params is set when the aggressive search picked the output.
	Params *GridParams
}
