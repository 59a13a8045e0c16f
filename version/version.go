package version

// Build information
var (
	Version   string
	Revision  string
	Branch    string
	BuildDate string
	GoVersion string
)

// String gives the one line version banner
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Revision == "" {
		return "schedtool " + v
	}
	return "schedtool " + v + " (" + Revision + ")"
}
