package webptool

import "strconv"

// Arg is one codec flag with its values. Building the command line from typed
// pairs instead of a formatted string keeps unescaped filenames out of flags.
type Arg struct {
	Flag   string
	Values []string
}

func intArg(flag string, v int) Arg {
	return Arg{Flag: flag, Values: []string{strconv.Itoa(v)}}
}

// CwebpArgs maps each set Config field to its cwebp flag. Unset fields are
// omitted so the codec's own defaults apply; enumeration order is fixed so the
// argument set is deterministic for a given config.
func CwebpArgs(cfg Config) []Arg {
	var args []Arg
	if cfg.Lossless {
		args = append(args, Arg{Flag: "-lossless"})
	}
	args = append(args, intArg("-q", cfg.Quality))
	if cfg.Method != Unset {
		args = append(args, intArg("-m", cfg.Method))
	}
	if cfg.Sharpness != Unset {
		args = append(args, intArg("-sharpness", cfg.Sharpness))
	}
	if cfg.FilterStrength != Unset {
		args = append(args, intArg("-f", cfg.FilterStrength))
	}
	if cfg.AutoFilter {
		args = append(args, Arg{Flag: "-af"})
	}
	if cfg.FilterType != Unset {
		args = append(args, intArg("-filter_type", cfg.FilterType))
	}
	if cfg.Passes != Unset {
		args = append(args, intArg("-pass", cfg.Passes))
	}
	if cfg.Preprocessing != Unset {
		args = append(args, intArg("-preprocessing", cfg.Preprocessing))
	}
	if cfg.NearLossless != Unset {
		args = append(args, intArg("-near_lossless", cfg.NearLossless))
	}
	if cfg.DeltaPalette {
		args = append(args, Arg{Flag: "-delta_palette"})
	}
	if cfg.Strong {
		args = append(args, Arg{Flag: "-strong"})
	}
	if cfg.ResizeWidth > 0 {
		args = append(args, Arg{
			Flag:   "-resize",
			Values: []string{strconv.Itoa(cfg.ResizeWidth), strconv.Itoa(cfg.ResizeHeight)},
		})
	}
	return args
}

// Flatten expands typed args into the cwebp argv tail:
// [flags...] input -o output.
func Flatten(args []Arg, input, output string) []string {
	argv := make([]string, 0, len(args)*2+3)
	for _, a := range args {
		argv = append(argv, a.Flag)
		argv = append(argv, a.Values...)
	}
	return append(argv, input, "-o", output)
}
