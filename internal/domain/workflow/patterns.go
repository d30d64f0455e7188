package workflow

import "regexp"

// PatternRule names a boolean heuristic over a single sequence. Rules are
// hints for the suggestion generator, not classifications: false negatives
// are fine, false positives should be rare.
type PatternRule struct {
	Name    string
	Matches func(seq Sequence) bool
}

var (
	versionControlCmd = regexp.MustCompile(`^\s*(git|hg|svn)\b`)
	packageInstallCmd = regexp.MustCompile(`^\s*(npm|pnpm|yarn|bun)\s+(install|add|ci|start|run\s+dev)\b|^\s*pip3?\s+install\b|^\s*go\s+get\b`)
	qualityCmd        = regexp.MustCompile(`\b(test|lint|fmt|format|vet)\b|\b(pytest|eslint|prettier|golangci-lint)\b`)
	buildCmd          = regexp.MustCompile(`^\s*(go\s+build|make\b|npm\s+run\s+build|yarn\s+build|cargo\s+build|mvn\s+(package|install)|gradle\s+build)`)
	shipCmd           = regexp.MustCompile(`^\s*(docker|docker-compose|podman|kubectl|helm)\b|\bdeploy\b`)
)

// DefaultPatternRules is the fixed rule set applied by the analyzer.
func DefaultPatternRules() []PatternRule {
	return []PatternRule{
		{
			// Work scoped to a subdirectory combined with a package
			// install/start command.
			Name: "scoped-package-setup",
			Matches: func(seq Sequence) bool {
				scoped, install := false, false
				for _, el := range seq.Elements {
					if el.DirectoryTag != "" && el.DirectoryTag != "root" {
						scoped = true
					}
					if packageInstallCmd.MatchString(el.Command) {
						install = true
					}
				}
				return scoped && install
			},
		},
		{
			Name: "version-control-burst",
			Matches: func(seq Sequence) bool {
				n := 0
				for _, el := range seq.Elements {
					if versionControlCmd.MatchString(el.Command) {
						n++
					}
				}
				return n >= 2
			},
		},
		{
			Name: "quality-pass",
			Matches: func(seq Sequence) bool {
				for _, el := range seq.Elements {
					if qualityCmd.MatchString(el.Command) {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "build-and-ship",
			Matches: func(seq Sequence) bool {
				build, ship := false, false
				for _, el := range seq.Elements {
					if buildCmd.MatchString(el.Command) {
						build = true
					}
					if shipCmd.MatchString(el.Command) {
						ship = true
					}
				}
				return build && ship
			},
		},
	}
}
