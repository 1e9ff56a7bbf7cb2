package config

import (
	"flag"
	"fmt"
	"strings"
)

// setCustomUsage configures the flag set with a usage function listing
// the commands and the environment variable of each flag.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "\nFN-DSA signatures\n\n")
		fmt.Fprintf(out, "Usage:\n  %s <%s> [flags]\n\nFlags:\n",
			fs.Name(), strings.Join(commands, "|"))

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}
			fmt.Fprintf(out, "  %-22s %s", flagSig, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %s)", f.DefValue)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEach flag can also be set with the environment variable %s<NAME>.\n\n", EnvPrefix)
	}
}
