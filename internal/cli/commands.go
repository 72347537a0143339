package cli

// Command represents a CLI command type.
type Command int

const (
	// CommandNone represents no command or an unrecognized command.
	CommandNone Command = iota

	// CommandRun runs one command and matches its output.
	CommandRun

	// CommandCheck runs a suite file.
	CommandCheck

	// CommandVersion represents the version command for displaying build information.
	CommandVersion

	// CommandHelp represents the help command for showing usage information.
	CommandHelp
)

// String returns the command name as a string.
func (c Command) String() string {
	switch c {
	case CommandRun:
		return "run"
	case CommandCheck:
		return "check"
	case CommandVersion:
		return "version"
	case CommandHelp:
		return "help"
	default:
		return ""
	}
}

// IsValid returns true if the command is a recognized command.
func (c Command) IsValid() bool {
	return c > CommandNone && c <= CommandHelp
}

// CommandInfo holds metadata about a command.
type CommandInfo struct {
	Name            string
	Aliases         []string
	Description     string
	Usage           string
	LongDescription string
}

// Commands returns all available commands with their metadata.
func Commands() []CommandInfo {
	return []CommandInfo{
		{
			Name:        "run",
			Aliases:     []string{"r", "exec"},
			Description: "Run a command and match its output against glob patterns",
			Usage:       "runcheck run [flags] <program> [args...]",
			LongDescription: `Run a command once and check its result.

Each --stdout or --stderr flag adds one expectation: at least one line of
that stream must match the glob pattern in full. Patterns use * for any run
of characters, ? for one character and [seq] or [!seq] for character sets.
On failure the complete result is printed.

Flags:
  --stdout PATTERN    Expect a stdout line matching PATTERN (repeatable)
  --stderr PATTERN    Expect a stderr line matching PATTERN (repeatable)
  --exit-code N       Expect exit status N
  --cwd DIR           Run in DIR
  --shell             Run the arguments as one shell line
  --timeout DURATION  Kill the command after DURATION (e.g. 30s, 5m)
  --print             Always print the result

Examples:
  runcheck run --stdout "*running*" vagrant status
  runcheck run --exit-code 1 --stderr "*No such file*" ls /missing
  runcheck run --shell --stdout "ok=*failed=0*" "ansible-playbook site.yml | tail -n 3"`,
		},
		{
			Name:        "check",
			Aliases:     []string{"c", "suite"},
			Description: "Run the checks in a suite file",
			Usage:       "runcheck check [flags] [suite.yaml]",
			LongDescription: `Run every check in a YAML suite file and report the results.

Without a file argument, runcheck.yaml in the current directory is used.

Flags:
  --format FORMAT     Report format: text or yaml (default from config)
  --fail-fast         Stop after the first check that does not pass
  --verbose-report    Include results of passing checks

Examples:
  runcheck check
  runcheck check --fail-fast tests/box.yaml
  runcheck check --format yaml > report.yaml`,
		},
		{
			Name:        "version",
			Aliases:     []string{"v"},
			Description: "Show version information",
			Usage:       "runcheck version",
			LongDescription: `Display version information about runcheck.

Shows the version number, build time, and git commit hash.`,
		},
		{
			Name:        "help",
			Aliases:     []string{"h"},
			Description: "Show help for a command",
			Usage:       "runcheck help [command]",
			LongDescription: `Display help information.

When called without arguments, shows general help and available commands.
When called with a command name, shows detailed help for that command.

Examples:
  runcheck help        Show general help
  runcheck help check  Show help for check command`,
		},
	}
}

// GetCommandInfo returns the CommandInfo for a given command.
// Returns nil if the command is not found.
func GetCommandInfo(cmd Command) *CommandInfo {
	if !cmd.IsValid() {
		return nil
	}

	cmds := Commands()
	for i := range cmds {
		if cmds[i].Name == cmd.String() {
			return &cmds[i]
		}
	}
	return nil
}

// ParseCommand parses a string into a Command.
// It recognizes both primary command names and aliases.
func ParseCommand(s string) Command {
	for _, info := range Commands() {
		if s == info.Name {
			return commandFromName(info.Name)
		}
		for _, alias := range info.Aliases {
			if s == alias {
				return commandFromName(info.Name)
			}
		}
	}
	return CommandNone
}

func commandFromName(name string) Command {
	switch name {
	case "run":
		return CommandRun
	case "check":
		return CommandCheck
	case "version":
		return CommandVersion
	case "help":
		return CommandHelp
	default:
		return CommandNone
	}
}
