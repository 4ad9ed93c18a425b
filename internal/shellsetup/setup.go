// Package shellsetup prints the shell function that lets rpane change the
// calling shell's directory on exit, and writes the directory it hands over.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"
)

// ParentShellFunc names the shell that started the process, if known.
type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	Executable   string
}

// ResultPath is where the process with the given pid leaves its final
// directory for the wrapper function.
func ResultPath(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("rpane_result_%d.txt", pid))
}

// WriteResult records dir for the wrapper function of this process.
func WriteResult(dir string) error {
	if err := os.WriteFile(ResultPath(os.Getpid()), []byte(dir), 0o600); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}

var snippets = map[string]*template.Template{
	"posix": template.Must(template.New("posix").Parse(`rpane() {
    if [ "$#" -gt 0 ]; then
        command {{.Exe}} "$@"
        return $?
    fi

    command {{.Exe}} &
    rpane_pid=$!
    wait $rpane_pid

    result_file="${TMPDIR:-/tmp}/rpane_result_$rpane_pid.txt"
    if [ -f "$result_file" ] && [ ! -L "$result_file" ] && [ -O "$result_file" ]; then
        dest=$(cat "$result_file" 2>/dev/null)
        rm -f "$result_file"
        [ -d "$dest" ] && cd "$dest"
    else
        rm -f "$result_file" 2>/dev/null
    fi
}
`)),
	"fish": template.Must(template.New("fish").Parse(`function rpane
    if test (count $argv) -gt 0
        command {{.Exe}} $argv
        return $status
    end

    command {{.Exe}} &
    set rpane_pid $last_pid
    wait $rpane_pid

    set tmp $TMPDIR
    test -z "$tmp"; and set tmp /tmp
    set result_file "$tmp/rpane_result_$rpane_pid.txt"
    if test -f "$result_file" -a ! -L "$result_file" -a -O "$result_file"
        set dest (cat "$result_file" 2>/dev/null)
        test -d "$dest"; and builtin cd "$dest"
    end
    rm -f "$result_file" 2>/dev/null
end
`)),
	"pwsh": template.Must(template.New("pwsh").Parse(`function rpane {
    param([Parameter(ValueFromRemainingArguments=$true)][string[]]$Rest)
    if ($Rest.Count -gt 0) {
        & {{.Exe}} @Rest
        return
    }

    $process = Start-Process -FilePath {{.Exe}} -NoNewWindow -PassThru
    $process.WaitForExit()
    $resultFile = Join-Path $env:TEMP "rpane_result_$($process.Id).txt"
    try {
        if (Test-Path $resultFile) {
            $dest = Get-Content $resultFile -Raw
            if ($dest -and (Test-Path $dest -PathType Container)) {
                Set-Location $dest
            }
        }
    } finally {
        Remove-Item $resultFile -ErrorAction SilentlyContinue
    }
}
`)),
}

// Snippet renders the wrapper function for shell. Unknown shells get the
// POSIX function.
func Snippet(shell, executable string) (string, error) {
	family := shellFamily(canonicalShellName(normalizeShellName(shell)))
	var b strings.Builder
	data := struct{ Exe string }{Exe: strconv.Quote(executable)}
	if err := snippets[family].Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s snippet: %w", family, err)
	}
	return b.String(), nil
}

// PrintSetup writes the wrapper for shellOverride, or for the detected shell
// when the override is empty.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}
	shell := canonicalShellName(normalizeShellName(shellOverride))
	if shell == "" {
		shell = detectShellInternal(runtime.GOOS, os.Getenv, parent)
	}

	exe := cfg.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			exe = "rpane"
		}
	}
	snippet, err := Snippet(shell, exe)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, snippet)
	return err
}

func shellFamily(shell string) string {
	switch shell {
	case "fish":
		return "fish"
	case "pwsh", "cmd":
		return "pwsh"
	default:
		return "posix"
	}
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}
	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}
	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell == "cmd" || shell == "pwsh" {
			return shell
		}
		return "pwsh"
	}
	return "bash"
}

func canonicalShellName(name string) string {
	if name == "powershell" {
		return "pwsh"
	}
	return name
}

// normalizeShellName reduces a shell command line or path to the lowercase
// executable name without extension.
func normalizeShellName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if quote := value[0]; quote == '"' || quote == '\'' {
		value = value[1:]
		if idx := strings.IndexByte(value, quote); idx >= 0 {
			value = value[:idx]
		}
	} else if fields := strings.Fields(value); len(fields) > 0 {
		value = fields[0]
	}
	base := path.Base(strings.ReplaceAll(value, "\\", "/"))
	return strings.TrimSuffix(strings.ToLower(base), ".exe")
}
