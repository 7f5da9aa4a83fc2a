// Package cmd provides CLI utilities for diffhouse
package cmd

import (
	"fmt"
	"strings"
)

// Commands available in diffhouse
var commands = []string{
	"clone",
	"commits",
	"filemods",
	"diffs",
	"branches",
	"tags",
	"cleanup",
	"completion",
	"help",
}

// GenerateBashCompletion generates bash completion script
func GenerateBashCompletion() string {
	return fmt.Sprintf(`# bash completion for diffhouse
_diffhouse_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Commands
    opts="%s"

    # Command-specific options
    case "${prev}" in
        clone)
            opts="--shallow --quiet -q --json --yes -y --verbose -v"
            ;;
        commits)
            opts="--shortstat --shallow --quiet -q --json --verbose -v"
            ;;
        filemods|diffs)
            opts="--shallow --quiet -q --json --verbose -v"
            ;;
        branches|tags)
            opts="--quiet -q --json --verbose -v"
            ;;
        cleanup)
            opts="--yes -y --quiet -q --json"
            ;;
        completion)
            opts="bash zsh fish powershell"
            ;;
    esac

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
}

complete -F _diffhouse_completions diffhouse
`, strings.Join(commands, " "))
}

// GenerateZshCompletion generates zsh completion script
func GenerateZshCompletion() string {
	cmdList := make([]string, len(commands))
	for i, cmd := range commands {
		desc := getCommandDescription(cmd)
		cmdList[i] = fmt.Sprintf("    '%s:%s'", cmd, desc)
	}

	return fmt.Sprintf(`#compdef diffhouse

_diffhouse() {
    local -a commands
    commands=(
%s
    )

    _arguments -C \
        '1: :->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                clone)
                    _arguments \
                        '--shallow[Bare, blob-filtered clone]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '--yes[Skip confirmation]' \
                        '-y[Skip confirmation]' \
                        '--verbose[Log every git invocation]' \
                        '-v[Log every git invocation]'
                    ;;
                commits)
                    _arguments \
                        '--shortstat[Attach per-commit change counts]' \
                        '--shallow[Bare, blob-filtered clone]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '--verbose[Log every git invocation]' \
                        '-v[Log every git invocation]'
                    ;;
                filemods|diffs)
                    _arguments \
                        '--shallow[Bare, blob-filtered clone]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '--verbose[Log every git invocation]' \
                        '-v[Log every git invocation]'
                    ;;
                branches|tags)
                    _arguments \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '--verbose[Log every git invocation]' \
                        '-v[Log every git invocation]'
                    ;;
                cleanup)
                    _arguments \
                        '--yes[Skip confirmation]' \
                        '-y[Skip confirmation]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish powershell)'
                    ;;
            esac
            ;;
    esac
}

_diffhouse "$@"
`, strings.Join(cmdList, "\n"))
}

// GenerateFishCompletion generates fish completion script
func GenerateFishCompletion() string {
	var completions []string

	for _, cmd := range commands {
		desc := getCommandDescription(cmd)
		completions = append(completions, fmt.Sprintf("complete -c diffhouse -f -n '__fish_use_subcommand' -a '%s' -d '%s'", cmd, desc))
	}

	completions = append(completions, "# clone command flags")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from clone' -l shallow -d 'Bare, blob-filtered clone'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from clone' -l yes -s y -d 'Skip confirmation'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from clone' -l json -d 'JSON output'")

	completions = append(completions, "# commits command flags")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from commits' -l shortstat -d 'Attach per-commit change counts'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from commits' -l shallow -d 'Bare, blob-filtered clone'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from commits' -l json -d 'JSON output'")

	completions = append(completions, "# filemods/diffs command flags")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from filemods diffs' -l shallow -d 'Bare, blob-filtered clone'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from filemods diffs' -l json -d 'JSON output'")

	completions = append(completions, "# branches/tags command flags")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from branches tags' -l json -d 'JSON output'")

	completions = append(completions, "# cleanup command flags")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from cleanup' -l yes -s y -d 'Skip confirmation'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from cleanup' -l quiet -s q -d 'Minimal output'")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from cleanup' -l json -d 'JSON output'")

	completions = append(completions, "# completion command shells")
	completions = append(completions, "complete -c diffhouse -n '__fish_seen_subcommand_from completion' -f -a 'bash zsh fish powershell'")

	return strings.Join(completions, "\n")
}

// GeneratePowerShellCompletion generates PowerShell completion script
func GeneratePowerShellCompletion() string {
	cmdArray := make([]string, len(commands))
	for i, cmd := range commands {
		cmdArray[i] = fmt.Sprintf("'%s'", cmd)
	}

	return fmt.Sprintf(`# PowerShell completion for diffhouse
Register-ArgumentCompleter -Native -CommandName diffhouse -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @(%s)

    $line = $commandAst.ToString()
    $tokens = $line.Split(' ')

    if ($tokens.Count -eq 2) {
        $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
    elseif ($tokens.Count -gt 2) {
        $subcommand = $tokens[1]

        switch ($subcommand) {
            'clone' {
                @('--shallow', '--yes', '-y', '--quiet', '-q', '--json', '--verbose', '-v') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'commits' {
                @('--shortstat', '--shallow', '--quiet', '-q', '--json', '--verbose', '-v') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            { $_ -in 'filemods','diffs' } {
                @('--shallow', '--quiet', '-q', '--json', '--verbose', '-v') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            { $_ -in 'branches','tags' } {
                @('--quiet', '-q', '--json', '--verbose', '-v') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'cleanup' {
                @('--yes', '-y', '--quiet', '-q', '--json') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'completion' {
                @('bash', 'zsh', 'fish', 'powershell') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
        }
    }
}
`, strings.Join(cmdArray, ", "))
}

// getCommandDescription returns a short description for a command.
func getCommandDescription(cmd string) string {
	descriptions := map[string]string{
		"clone":      "Materialize a scoped clone and report its path",
		"commits":    "Stream parsed commits as JSON lines",
		"filemods":   "Stream per-file modification records as JSON lines",
		"diffs":      "Stream per-hunk diff records as JSON lines",
		"branches":   "List remote branch names",
		"tags":       "List remote tag names",
		"cleanup":    "Remove residual clone directories",
		"completion": "Generate shell completion script",
		"help":       "Show help information",
	}

	if desc, ok := descriptions[cmd]; ok {
		return desc
	}
	return ""
}
