package cli

import (
	"fmt"
	"io"
	"strings"
)

// GenerateCompletion writes a shell completion script for the given shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh" or "fish").
//   - sequences: The accepted sequence names and aliases.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, sequences []string) error {
	list := strings.Join(sequences, " ")
	switch shell {
	case "bash":
		return writeScript(out, bashCompletion, list)
	case "zsh":
		return writeScript(out, zshCompletion, list)
	case "fish":
		return writeScript(out, fishCompletion, list)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func writeScript(out io.Writer, script, sequences string) error {
	_, err := fmt.Fprintf(out, script, sequences)
	return err
}

const bashCompletion = `# Bash completion script for seqtable
# Add this to your ~/.bashrc or ~/.bash_completion

_seqtable_completions() {
    local cur prev opts sequences
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="-h -help -version -V -n -seq -timeout -output -o -quiet -q -no-color -debug -server -port -max-n -concurrency -completion"
    sequences="%s all"

    case "${prev}" in
        -seq)
            COMPREPLY=( $(compgen -W "${sequences}" -- "${cur}") )
            return 0
            ;;
        -completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0
            ;;
        -output|-o)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        -timeout)
            COMPREPLY=( $(compgen -W "10s 30s 1m 5m" -- "${cur}") )
            return 0
            ;;
        -port)
            COMPREPLY=( $(compgen -W "8080 3000 9000" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _seqtable_completions seqtable
`

const zshCompletion = `#compdef seqtable

# Zsh completion script for seqtable
# Place this file in a directory of your $fpath as _seqtable

_seqtable() {
    local -a sequences
    sequences=(%s all)

    _arguments -s \
        '(-h -help)'{-h,-help}'[Show help message]' \
        '(-V -version)'{-V,-version}'[Show version information]' \
        '-n[Number of terms when no count is given]:count:' \
        '-seq[Sequence to tabulate]:sequence:($sequences)' \
        '-timeout[Maximum execution time]:duration:(10s 30s 1m 5m)' \
        '(-o -output)'{-o,-output}'[Also write the tables to a file]:file:_files' \
        '(-q -quiet)'{-q,-quiet}'[Tables only, no progress or status]' \
        '-no-color[Disable colored output]' \
        '-debug[Enable debug logging]' \
        '-server[Start HTTP server mode]' \
        '-port[Server port]:port:(8080 3000 9000)' \
        '-max-n[Largest count accepted by the server]:count:' \
        '-concurrency[Tables built in parallel]:workers:' \
        '-completion[Generate completion script]:shell:(bash zsh fish)' \
        '*:count:'
}

_seqtable "$@"
`

const fishCompletion = `# Fish completion script for seqtable
# Save as ~/.config/fish/completions/seqtable.fish

complete -c seqtable -f

complete -c seqtable -o h -o help -d 'Show help message'
complete -c seqtable -o V -o version -d 'Show version information'

complete -c seqtable -o n -d 'Number of terms when no count is given' -x
complete -c seqtable -o seq -d 'Sequence to tabulate' -xa '%s all'
complete -c seqtable -o timeout -d 'Maximum execution time' -xa '10s 30s 1m 5m'
complete -c seqtable -o concurrency -d 'Tables built in parallel' -x

complete -c seqtable -o o -o output -d 'Also write the tables to a file' -rF
complete -c seqtable -o q -o quiet -d 'Tables only, no progress or status'
complete -c seqtable -o no-color -d 'Disable colored output'
complete -c seqtable -o debug -d 'Enable debug logging'

complete -c seqtable -o server -d 'Start HTTP server mode'
complete -c seqtable -o port -d 'Server port' -xa '8080 3000 9000'
complete -c seqtable -o max-n -d 'Largest count accepted by the server' -x

complete -c seqtable -o completion -d 'Generate completion script' -xa 'bash zsh fish'
`
